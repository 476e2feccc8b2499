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
	"fmt"
	"sync"

	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

type MetricDefinition struct {
	Name   string
	Help   string
	Type   string
	Labels []string
}

var allMetricDefinitions = []MetricDefinition{
	{
		Name:   "table_rows_read",
		Help:   "Number of rows read from each source table",
		Type:   "counter",
		Labels: []string{"table"},
	},
	{
		Name:   "records_written",
		Help:   "Number of feature rows written by each writer stage",
		Type:   "counter",
		Labels: []string{"stage"},
	},
	{
		Name:   "categories_bucketed",
		Help:   "Number of categories partitioned into buckets, per variable",
		Type:   "gauge",
		Labels: []string{"variable"},
	},
	{
		Name:   "unseen_categories",
		Help:   "Number of apply-time category values never observed during fitting, per variable",
		Type:   "counter",
		Labels: []string{"variable"},
	},
	{
		Name:   "feature_columns",
		Help:   "Width of the assembled feature table",
		Type:   "gauge",
		Labels: []string{},
	},
}

// Metrics wraps the prometheus counters of one pipeline instance. Tests
// pass their own registry so repeated pipeline construction does not
// collide on registration.
type Metrics struct {
	settings *config.MetricsSettings
	reg      prometheus.Registerer

	mutex          sync.Mutex
	counterVecs    map[string]*prometheus.CounterVec
	gaugeVecs      map[string]*prometheus.GaugeVec
	featureColumns prometheus.Gauge
}

func NewMetrics(settings *config.MetricsSettings) *Metrics {
	return NewMetricsWithRegisterer(settings, prometheus.DefaultRegisterer)
}

func NewMetricsWithRegisterer(settings *config.MetricsSettings, reg prometheus.Registerer) *Metrics {
	return &Metrics{
		settings:    settings,
		reg:         reg,
		counterVecs: map[string]*prometheus.CounterVec{},
		gaugeVecs:   map[string]*prometheus.GaugeVec{},
	}
}

func (o *Metrics) prefixed(name string) string {
	if o.settings != nil && o.settings.Prefix != "" {
		return o.settings.Prefix + name
	}
	return "logfeatures_" + name
}

func (o *Metrics) counterVec(def *MetricDefinition) *prometheus.CounterVec {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if cv, ok := o.counterVecs[def.Name]; ok {
		return cv
	}
	cv := promauto.With(o.reg).NewCounterVec(prometheus.CounterOpts{
		Name: o.prefixed(def.Name),
		Help: def.Help,
	}, def.Labels)
	o.counterVecs[def.Name] = cv
	return cv
}

func (o *Metrics) gaugeVec(def *MetricDefinition) *prometheus.GaugeVec {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if gv, ok := o.gaugeVecs[def.Name]; ok {
		return gv
	}
	gv := promauto.With(o.reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: o.prefixed(def.Name),
		Help: def.Help,
	}, def.Labels)
	o.gaugeVecs[def.Name] = gv
	return gv
}

func (o *Metrics) TableRowsRead(table string) prometheus.Counter {
	return o.counterVec(&allMetricDefinitions[0]).WithLabelValues(table)
}

func (o *Metrics) CreateRecordsWrittenCounter(stage string) prometheus.Counter {
	return o.counterVec(&allMetricDefinitions[1]).WithLabelValues(stage)
}

func (o *Metrics) CategoriesBucketed(variable string) prometheus.Gauge {
	return o.gaugeVec(&allMetricDefinitions[2]).WithLabelValues(variable)
}

func (o *Metrics) UnseenCategories(variable string) prometheus.Counter {
	return o.counterVec(&allMetricDefinitions[3]).WithLabelValues(variable)
}

func (o *Metrics) FeatureColumns() prometheus.Gauge {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.featureColumns == nil {
		o.featureColumns = promauto.With(o.reg).NewGauge(prometheus.GaugeOpts{
			Name: o.prefixed(allMetricDefinitions[4].Name),
			Help: allMetricDefinitions[4].Help,
		})
	}
	return o.featureColumns
}

func (o *Metrics) Error(message string) {
	logrus.Error(message)
	if o.settings != nil && !o.settings.NoPanic {
		panic(message)
	}
}

// GetDocumentation renders the markdown documentation of all the
// operational metrics; consumed by cmd/operationalmetricstodoc.
func GetDocumentation() string {
	doc := ""
	for _, def := range allMetricDefinitions {
		doc += fmt.Sprintf(
			`
### %s
| **Name** | %s |
|:---|:---|
| **Description** | %s |
| **Type** | %s |
| **Labels** | %v |

`,
			def.Name,
			def.Name,
			def.Help,
			def.Type,
			def.Labels,
		)
	}

	return doc
}
