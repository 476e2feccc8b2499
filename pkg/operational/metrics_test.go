/*
 * Copyright (C) 2022 IBM, Inc.
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

package operational

import (
	"testing"

	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	m := NewMetricsWithRegisterer(&config.MetricsSettings{}, prometheus.NewRegistry())

	m.TableRowsRead("events").Add(10)
	m.TableRowsRead("events").Inc()
	m.TableRowsRead("resources").Inc()
	m.CreateRecordsWrittenCounter("write1").Add(3)
	m.UnseenCategories("event_type").Inc()

	assert.Equal(t, float64(11), testutil.ToFloat64(m.TableRowsRead("events")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TableRowsRead("resources")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.CreateRecordsWrittenCounter("write1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UnseenCategories("event_type")))
}

func TestGaugesSet(t *testing.T) {
	m := NewMetricsWithRegisterer(&config.MetricsSettings{}, prometheus.NewRegistry())

	m.CategoriesBucketed("event_type").Set(42)
	m.FeatureColumns().Set(13)

	assert.Equal(t, float64(42), testutil.ToFloat64(m.CategoriesBucketed("event_type")))
	assert.Equal(t, float64(13), testutil.ToFloat64(m.FeatureColumns()))
}

func TestVecsAreCached(t *testing.T) {
	m := NewMetricsWithRegisterer(&config.MetricsSettings{}, prometheus.NewRegistry())

	// repeated accessor calls must reuse the registered collector, else
	// promauto would panic on duplicate registration
	require.NotPanics(t, func() {
		m.TableRowsRead("events")
		m.TableRowsRead("events")
		m.FeatureColumns()
		m.FeatureColumns()
	})
}

func TestMetricsPrefix(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegisterer(&config.MetricsSettings{}, reg)
	m.TableRowsRead("events").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "logfeatures_table_rows_read", families[0].GetName())

	reg = prometheus.NewRegistry()
	m = NewMetricsWithRegisterer(&config.MetricsSettings{Prefix: "custom_"}, reg)
	m.TableRowsRead("events").Inc()

	families, err = reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "custom_table_rows_read", families[0].GetName())
}

func TestMetricsError(t *testing.T) {
	m := NewMetricsWithRegisterer(&config.MetricsSettings{NoPanic: true}, prometheus.NewRegistry())
	require.NotPanics(t, func() { m.Error("some failure") })

	m = NewMetricsWithRegisterer(&config.MetricsSettings{}, prometheus.NewRegistry())
	require.Panics(t, func() { m.Error("some failure") })
}

func TestGetDocumentation(t *testing.T) {
	doc := GetDocumentation()
	for _, def := range allMetricDefinitions {
		assert.Contains(t, doc, def.Name)
		assert.Contains(t, doc, def.Help)
	}
}
