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
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
)

var plog = logrus.WithField("component", "prometheus")

// InitializePrometheus starts the global /metrics server unless disabled.
func InitializePrometheus(settings *config.MetricsSettings) *http.Server {
	if settings.DisableGlobalServer {
		plog.Info("will not start global prometheus server")
		return nil
	}
	return StartServerAsync(settings)
}

// StartServerAsync listens for prometheus resource usage requests.
func StartServerAsync(settings *config.MetricsSettings) *http.Server {
	// if value of address is empty, then by default it will take 0.0.0.0
	port := settings.Port
	if port == 0 {
		port = 9090
	}
	addr := fmt.Sprintf("%s:%v", settings.Address, port)
	plog.Infof("StartServerAsync: addr = %s", addr)

	gatherer := prometheus.Gatherer(prometheus.DefaultGatherer)
	if settings.SuppressGoMetrics {
		gatherer = suppressRuntimeMetrics{inner: gatherer}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			plog.Errorf("error in http.ListenAndServe: %v", err)
			if !settings.NoPanic {
				panic(err)
			}
		}
	}()

	return server
}

// suppressRuntimeMetrics hides the go_* and process_* collector families,
// keeping only the pipeline metrics on the /metrics endpoint.
type suppressRuntimeMetrics struct {
	inner prometheus.Gatherer
}

func (s suppressRuntimeMetrics) Gather() ([]*dto.MetricFamily, error) {
	families, err := s.inner.Gather()
	if err != nil {
		return nil, err
	}
	filtered := make([]*dto.MetricFamily, 0, len(families))
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "go_") || strings.HasPrefix(f.GetName(), "process_") {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered, nil
}
