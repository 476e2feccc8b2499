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

package featurize

import (
	"fmt"
	"sync"

	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/operational"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/extract/aggregate"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/extract/bucket"
	"github.com/sirupsen/logrus"
)

var flog = logrus.WithField("component", "featurize")

const (
	defaultClasses     = 3
	defaultLabelColumn = "severity"
)

// Featurizer turns an ingested dataset into the flat feature table.
type Featurizer interface {
	Process(ds *model.Dataset) (*model.FeatureTable, error)
}

type featurize struct {
	cfg       api.Featurize
	opMetrics *operational.Metrics
}

// Process fits the bucket lookups and one-hot vocabularies on the
// labeled rows (or loads previously fitted ones), then expands every
// variable over all entities and assembles the final table. The fitted
// state is an immutable value handed to the apply stage; nothing is
// recomputed from test data.
func (f *featurize) Process(ds *model.Dataset) (*model.FeatureTable, error) {
	if len(ds.Entities) == 0 {
		return nil, fmt.Errorf("featurize: base entity table is empty")
	}
	arts, err := f.artifacts(ds)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(ds.Entities))
	for i, e := range ds.Entities {
		ids[i] = e.ID
	}

	// the per-variable expansions share no mutable state; run them
	// concurrently
	blocks := make([]*model.FeatureBlock, len(f.cfg.Variables)+len(f.cfg.OneHot))
	var wg sync.WaitGroup
	for i, v := range f.cfg.Variables {
		wg.Add(1)
		go func(slot int, v api.BucketVariable) {
			defer wg.Done()
			join := f.joinRows(ds, v.Name, v.Key)
			blocks[slot] = ExpandBuckets(join, ids, arts.Buckets[v.Name], prefixOf(v.Prefix, v.Name),
				f.opMetrics.UnseenCategories(v.Name))
		}(i, v)
	}
	for i, v := range f.cfg.OneHot {
		wg.Add(1)
		go func(slot int, v api.OneHotVariable) {
			defer wg.Done()
			join := f.joinRows(ds, v.Name, api.JoinKeyEntity)
			blocks[slot] = ExpandOneHot(join, ids, arts.Vocabs[v.Name], prefixOf(v.Prefix, v.Name),
				f.opMetrics.UnseenCategories(v.Name))
		}(len(f.cfg.Variables)+i, v)
	}
	wg.Wait()

	table, err := Assemble(ds.Entities, blocks, f.cfg.LabelColumn)
	if err != nil {
		return nil, err
	}
	f.opMetrics.FeatureColumns().Set(float64(len(table.Columns)))
	flog.Infof("assembled feature table: %d rows x %d columns", len(table.Rows), len(table.Columns))
	return table, nil
}

// joinRows resolves the (entity, category) relation of a variable:
// either its own ingested join table, or the single-valued location
// attribute of the base table.
func (f *featurize) joinRows(ds *model.Dataset, name string, key string) []model.JoinRow {
	if key == api.JoinKeyLocation {
		out := make([]model.JoinRow, len(ds.Entities))
		for i, e := range ds.Entities {
			out[i] = model.JoinRow{ID: e.ID, Value: e.Location}
		}
		return out
	}
	return ds.Joins[name]
}

// fit computes the bucket lookups and one-hot vocabularies from the
// labeled part of the dataset.
func (f *featurize) fit(ds *model.Dataset) (*Artifacts, error) {
	severities := ds.SeverityByID()
	if len(severities) == 0 {
		return nil, fmt.Errorf("featurize: no labeled entities to fit on")
	}
	arts := &Artifacts{
		Buckets: make(map[string]*bucket.Lookup, len(f.cfg.Variables)),
		Vocabs:  make(map[string][]string, len(f.cfg.OneHot)),
	}
	for _, v := range f.cfg.Variables {
		join := f.joinRows(ds, v.Name, v.Key)
		agg, err := aggregate.NewAggregator(v.Name, f.cfg.Classes)
		if err != nil {
			return nil, err
		}
		counts, err := agg.CountByClass(join, severities)
		if err != nil {
			return nil, err
		}
		lookup, err := bucket.Fit(v.Name, counts, f.cfg.Classes, v.Buckets)
		if err != nil {
			return nil, err
		}
		arts.Buckets[v.Name] = lookup
		f.opMetrics.CategoriesBucketed(v.Name).Set(float64(len(lookup.Ranks)))
	}
	for _, v := range f.cfg.OneHot {
		join := f.joinRows(ds, v.Name, api.JoinKeyEntity)
		vocab, err := FitVocabulary(v.Name, join, severities)
		if err != nil {
			return nil, err
		}
		arts.Vocabs[v.Name] = vocab
	}
	return arts, nil
}

func prefixOf(prefix string, name string) string {
	if prefix != "" {
		return prefix
	}
	return name
}

// NewFeaturize create a new featurize stage
func NewFeaturize(opMetrics *operational.Metrics, params config.StageParam) (Featurizer, error) {
	flog.Debugf("entering NewFeaturize")
	cfg := api.Featurize{}
	if params.Featurize != nil && params.Featurize.Featurize != nil {
		cfg = *params.Featurize.Featurize
	}
	if cfg.Classes == 0 {
		cfg.Classes = defaultClasses
	}
	if cfg.LabelColumn == "" {
		cfg.LabelColumn = defaultLabelColumn
	}
	if len(cfg.Variables) == 0 && len(cfg.OneHot) == 0 {
		return nil, fmt.Errorf("featurize: no variables configured")
	}
	seen := map[string]bool{}
	for _, v := range cfg.Variables {
		if v.Name == "" {
			return nil, fmt.Errorf("featurize: bucketed variable without a name")
		}
		if v.Buckets < 1 {
			return nil, fmt.Errorf("featurize: variable %s needs a positive bucket count", v.Name)
		}
		if v.Key != "" && v.Key != api.JoinKeyEntity && v.Key != api.JoinKeyLocation {
			return nil, fmt.Errorf("featurize: variable %s has unknown join key %s", v.Name, v.Key)
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("featurize: variable %s configured twice", v.Name)
		}
		seen[v.Name] = true
	}
	for _, v := range cfg.OneHot {
		if v.Name == "" {
			return nil, fmt.Errorf("featurize: one-hot variable without a name")
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("featurize: variable %s configured twice", v.Name)
		}
		seen[v.Name] = true
	}
	return &featurize{cfg: cfg, opMetrics: opMetrics}, nil
}
