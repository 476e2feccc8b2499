/*
 * Copyright (C) 2023 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package prometheus

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPromServer(t *testing.T) {
	srv := InitializePrometheus(&config.MetricsSettings{})

	serverURL := "http://0.0.0.0:9090"
	t.Logf("Started test http server: %v", serverURL)

	httpClient := &http.Client{}

	// wait for our test http server to come up
	checkHTTPReady(httpClient, serverURL+"/metrics")

	r, err := http.NewRequest("GET", serverURL+"/metrics", nil)
	require.NoError(t, err)

	resp, err := httpClient.Do(r)
	require.NoError(t, err)
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	bodyString := string(bodyBytes)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, bodyString, "go_gc_duration_seconds")

	_ = srv.Shutdown(context.Background())
}

func TestStartPromServer_SuppressGoMetrics(t *testing.T) {
	srv := InitializePrometheus(&config.MetricsSettings{Port: 9091, SuppressGoMetrics: true})

	serverURL := "http://0.0.0.0:9091"
	httpClient := &http.Client{}
	checkHTTPReady(httpClient, serverURL+"/metrics")

	resp, err := httpClient.Get(serverURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	bodyString := string(bodyBytes)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, bodyString, "go_gc_duration_seconds")
	assert.NotContains(t, bodyString, "process_cpu_seconds_total")
	assert.Contains(t, bodyString, "promhttp_metric_handler_requests_total")

	_ = srv.Shutdown(context.Background())
}

func TestStartPromServer_Disabled(t *testing.T) {
	srv := InitializePrometheus(&config.MetricsSettings{DisableGlobalServer: true})
	require.Nil(t, srv)
}

func checkHTTPReady(httpClient *http.Client, url string) {
	for i := 0; i < 60; i++ {
		if r, err := httpClient.Get(url); err == nil {
			r.Body.Close()
			break
		}
		time.Sleep(time.Second)
	}
}
