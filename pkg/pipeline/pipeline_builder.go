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

package pipeline

import (
	"errors"
	"fmt"

	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/operational"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/featurize"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/ingest"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/transform"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/write"
	"github.com/netobserv/gopipes/pkg/node"
	log "github.com/sirupsen/logrus"
)

// stage types
const (
	StageIngest    = "ingest"
	StageTransform = "transform"
	StageFeaturize = "featurize"
	StageWrite     = "write"
)

// Error wraps any error caused by a wrong formation of the pipeline
type Error struct {
	StageName string
	wrapped   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline stage %q: %s", e.StageName, e.wrapped.Error())
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// builder stores the information that is only required during the build of the pipeline
type builder struct {
	pipelineStages   []*pipelineEntry
	configStages     []config.Stage
	configParams     []config.StageParam
	pipelineEntryMap map[string]*pipelineEntry
	createdStages    map[string]interface{}
	startNodes       []*node.Init
	terminalNodes    []*node.Terminal
	opMetrics        *operational.Metrics
}

type pipelineEntry struct {
	stageName   string
	stageType   string
	Ingester    ingest.Ingester
	Transformer transform.Transformer
	Featurizer  featurize.Featurizer
	Writer      write.Writer
}

func newBuilder(cfg *config.ConfigFileStruct, opMetrics *operational.Metrics) *builder {
	return &builder{
		pipelineEntryMap: map[string]*pipelineEntry{},
		createdStages:    map[string]interface{}{},
		configStages:     cfg.Pipeline,
		configParams:     cfg.Parameters,
		opMetrics:        opMetrics,
	}
}

// read the configuration stages definition and instantiate the corresponding native Go objects
func (b *builder) readStages() error {
	for _, param := range b.configParams {
		log.Debugf("stage = %v", param.Name)
		pEntry := pipelineEntry{
			stageName: param.Name,
			stageType: findStageType(&param),
		}
		var err error
		switch pEntry.stageType {
		case StageIngest:
			pEntry.Ingester, err = getIngester(b.opMetrics, param)
		case StageTransform:
			pEntry.Transformer, err = getTransformer(param)
		case StageFeaturize:
			pEntry.Featurizer, err = getFeaturizer(b.opMetrics, param)
		case StageWrite:
			pEntry.Writer, err = getWriter(b.opMetrics, param)
		default:
			err = fmt.Errorf("invalid stage type: %v", pEntry.stageType)
		}
		if err != nil {
			return err
		}
		b.pipelineEntryMap[param.Name] = &pEntry
		b.pipelineStages = append(b.pipelineStages, &pEntry)
	}
	log.Debugf("pipeline = %v", b.pipelineStages)
	return nil
}

// reads the configured Go stages and connects between them
// readStages must be invoked before this
func (b *builder) build() (*Pipeline, error) {
	// accounts start and middle nodes that are connected to another node
	sendingNodes := map[string]struct{}{}
	// accounts middle or terminal nodes that receive data from another node
	receivingNodes := map[string]struct{}{}
	for _, connection := range b.configStages {
		if connection.Name == "" || connection.Follows == "" {
			// ignore entries that do not represent a connection
			continue
		}
		// instantiates (or loads from cache) the destination node of a connection
		dstEntry, ok := b.pipelineEntryMap[connection.Name]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline stage: %s", connection.Name)
		}
		dstNode, err := b.getStageNode(dstEntry, connection.Name)
		if err != nil {
			return nil, err
		}
		dst, ok := dstNode.(node.Receiver)
		if !ok {
			return nil, fmt.Errorf("stage %q of type %q can't receive data",
				connection.Name, dstEntry.stageType)
		}
		// instantiates (or loads from cache) the source node of a connection
		srcEntry, ok := b.pipelineEntryMap[connection.Follows]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline stage: %s", connection.Follows)
		}
		srcNode, err := b.getStageNode(srcEntry, connection.Follows)
		if err != nil {
			return nil, err
		}
		src, ok := srcNode.(node.Sender)
		if !ok {
			return nil, fmt.Errorf("stage %q of type %q can't send data",
				connection.Follows, srcEntry.stageType)
		}
		log.Infof("connecting stages: %s --> %s", connection.Follows, connection.Name)

		sendingNodes[connection.Follows] = struct{}{}
		receivingNodes[connection.Name] = struct{}{}
		// connects source and destination node, and catches any panic from the Go-Pipes library.
		var catchErr *Error
		func() {
			defer func() {
				if msg := recover(); msg != nil {
					catchErr = &Error{
						StageName: connection.Name,
						wrapped: fmt.Errorf("%q and %q stages haven't compatible input/outputs: %v",
							connection.Follows, connection.Name, msg),
					}
				}
			}()
			src.SendsTo(dst)
		}()
		if catchErr != nil {
			return nil, catchErr
		}
	}

	if err := b.verifyConnections(sendingNodes, receivingNodes); err != nil {
		return nil, err
	}
	if len(b.startNodes) == 0 {
		return nil, errors.New("no ingesters have been defined")
	}
	if len(b.terminalNodes) == 0 {
		return nil, errors.New("no writers have been defined")
	}
	return &Pipeline{
		startNodes:     b.startNodes,
		terminalNodes:  b.terminalNodes,
		pipelineStages: b.pipelineStages,
	}, nil
}

// verifies that all the start and middle nodes send data to another node
// verifies that all the middle and terminal nodes receive data from another node
func (b *builder) verifyConnections(sendingNodes, receivingNodes map[string]struct{}) error {
	for _, stg := range b.pipelineStages {
		if isReceptor(stg) {
			if _, ok := receivingNodes[stg.stageName]; !ok {
				return &Error{
					StageName: stg.stageName,
					wrapped: fmt.Errorf("pipeline stage from type %q"+
						" should receive data from at least another stage", stg.stageType),
				}
			}
		}
		if isSender(stg) {
			if _, ok := sendingNodes[stg.stageName]; !ok {
				return &Error{
					StageName: stg.stageName,
					wrapped: fmt.Errorf("pipeline stage from type %q"+
						" should send data to at least another stage", stg.stageType),
				}
			}
		}
	}
	return nil
}

func isReceptor(p *pipelineEntry) bool {
	return p.stageType != StageIngest
}

func isSender(p *pipelineEntry) bool {
	return p.stageType != StageWrite
}

func (b *builder) getStageNode(pe *pipelineEntry, stageID string) (interface{}, error) {
	if stg, ok := b.createdStages[stageID]; ok {
		return stg, nil
	}
	var stage interface{}
	switch pe.stageType {
	case StageIngest:
		init := node.AsInit(pe.Ingester.Ingest)
		b.startNodes = append(b.startNodes, init)
		stage = init
	case StageTransform:
		stage = node.AsMiddle(func(in <-chan *model.Dataset, out chan<- *model.Dataset) {
			for ds := range in {
				out <- pe.Transformer.Transform(ds)
			}
		})
	case StageFeaturize:
		stage = node.AsMiddle(func(in <-chan *model.Dataset, out chan<- *model.FeatureTable) {
			for ds := range in {
				table, err := pe.Featurizer.Process(ds)
				if err != nil {
					log.Errorf("featurize stage %s: %v", stageID, err)
					continue
				}
				out <- table
			}
		})
	case StageWrite:
		term := node.AsTerminal(func(in <-chan *model.FeatureTable) {
			for table := range in {
				pe.Writer.Write(table)
			}
		})
		b.terminalNodes = append(b.terminalNodes, term)
		stage = term
	default:
		return nil, &Error{
			StageName: stageID,
			wrapped:   fmt.Errorf("invalid stage type: %s", pe.stageType),
		}
	}
	b.createdStages[stageID] = stage
	return stage, nil
}

func getIngester(opMetrics *operational.Metrics, params config.StageParam) (ingest.Ingester, error) {
	var ingester ingest.Ingester
	var err error
	switch params.Ingest.Type {
	case api.FileType, api.FileLoopType:
		ingester, err = ingest.NewIngestFile(opMetrics, params)
	default:
		panic(fmt.Sprintf("`ingest` type %s not defined", params.Ingest.Type))
	}
	return ingester, err
}

func getTransformer(params config.StageParam) (transform.Transformer, error) {
	var transformer transform.Transformer
	var err error
	switch params.Transform.Type {
	case api.FilterType:
		transformer, err = transform.NewTransformFilter(params)
	case api.NoneType:
		transformer, err = transform.NewTransformNone()
	default:
		panic(fmt.Sprintf("`transform` type %s not defined; if no transformer needed, specify `none`", params.Transform.Type))
	}
	return transformer, err
}

func getFeaturizer(opMetrics *operational.Metrics, params config.StageParam) (featurize.Featurizer, error) {
	var featurizer featurize.Featurizer
	var err error
	switch params.Featurize.Type {
	case api.FeaturizeType:
		featurizer, err = featurize.NewFeaturize(opMetrics, params)
	default:
		panic(fmt.Sprintf("`featurize` type %s not defined", params.Featurize.Type))
	}
	return featurizer, err
}

func getWriter(opMetrics *operational.Metrics, params config.StageParam) (write.Writer, error) {
	var writer write.Writer
	var err error
	switch params.Write.Type {
	case api.CSVType:
		writer, err = write.NewWriteCSV(opMetrics, params)
	case api.StdoutType:
		writer, err = write.NewWriteStdout(params)
	case api.KafkaType:
		writer, err = write.NewWriteKafka(opMetrics, params)
	case api.S3Type:
		writer, err = write.NewWriteS3(opMetrics, params)
	case api.FakeType:
		writer, err = write.NewWriteFake()
	case api.NoneType:
		writer, err = write.NewWriteNone()
	default:
		panic(fmt.Sprintf("`write` type %s not defined; if no writer needed, specify `none`", params.Write.Type))
	}
	return writer, err
}

// findStageType identifies the stage type from the parameter fields
func findStageType(param *config.StageParam) string {
	log.Debugf("findStageType: stage = %v", param.Name)
	if param.Ingest != nil && param.Ingest.Type != "" {
		return StageIngest
	}
	if param.Transform != nil && param.Transform.Type != "" {
		return StageTransform
	}
	if param.Featurize != nil && param.Featurize.Type != "" {
		return StageFeaturize
	}
	if param.Write != nil && param.Write.Type != "" {
		return StageWrite
	}
	return "unknown"
}
