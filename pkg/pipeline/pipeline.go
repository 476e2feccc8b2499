/*
 * Copyright (C) 2019 IBM, Inc.
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

package pipeline

import (
	"fmt"

	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/operational"
	"github.com/netobserv/gopipes/pkg/node"
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline manager
type Pipeline struct {
	IsRunning      bool
	startNodes     []*node.Init
	terminalNodes  []*node.Terminal
	pipelineStages []*pipelineEntry
}

// NewPipeline defines the pipeline elements
func NewPipeline(cfg *config.ConfigFileStruct) (*Pipeline, error) {
	return newPipeline(cfg, operational.NewMetrics(&cfg.MetricsSettings))
}

// NewPipelineWithRegisterer is used by tests to avoid prometheus
// duplicate registration across pipeline instances.
func NewPipelineWithRegisterer(cfg *config.ConfigFileStruct, reg prometheus.Registerer) (*Pipeline, error) {
	return newPipeline(cfg, operational.NewMetricsWithRegisterer(&cfg.MetricsSettings, reg))
}

func newPipeline(cfg *config.ConfigFileStruct, opMetrics *operational.Metrics) (*Pipeline, error) {
	if len(cfg.Pipeline) == 0 {
		return nil, fmt.Errorf("no pipeline stages defined")
	}
	builder := newBuilder(cfg, opMetrics)
	if err := builder.readStages(); err != nil {
		return nil, err
	}
	return builder.build()
}

// Run starts the pipeline and waits for all the terminal stages to
// finish.
func (p *Pipeline) Run() {
	p.IsRunning = true
	for _, s := range p.startNodes {
		s.Start()
	}
	for _, t := range p.terminalNodes {
		<-t.Done()
	}
	p.IsRunning = false
}

// IsReady returns nil once the pipeline runs; usable as a
// healthcheck.Check.
func (p *Pipeline) IsReady() error {
	if !p.IsRunning {
		return fmt.Errorf("pipeline is not running")
	}
	return nil
}

// IsAlive returns nil while the pipeline runs; usable as a
// healthcheck.Check.
func (p *Pipeline) IsAlive() error {
	if !p.IsRunning {
		return fmt.Errorf("pipeline is not running")
	}
	return nil
}
