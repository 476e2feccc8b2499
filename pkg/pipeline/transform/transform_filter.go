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

package transform

import (
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	log "github.com/sirupsen/logrus"
)

type filterRule struct {
	keep       bool
	expression *govaluate.EvaluableExpression
}

type Filter struct {
	rules []filterRule
}

// Transform applies the filter rules to the base entity table. Join
// tables are left untouched: rows of dropped entities simply stop
// matching a label and fall out of the fit.
func (f *Filter) Transform(ds *model.Dataset) *model.Dataset {
	kept := make([]model.LabelRow, 0, len(ds.Entities))
	for _, entity := range ds.Entities {
		params := map[string]interface{}{
			"id":       entity.ID,
			"location": entity.Location,
			"severity": entity.Severity,
		}
		addToOutput := true
		for _, rule := range f.rules {
			result, err := rule.expression.Evaluate(params)
			if err != nil {
				log.Errorf("filter expression error on entity %d: %v", entity.ID, err)
				continue
			}
			matched, ok := result.(bool)
			if !ok {
				log.Errorf("filter expression for entity %d is not boolean: %v", entity.ID, result)
				continue
			}
			if rule.keep != matched {
				addToOutput = false
			}
		}
		if addToOutput {
			kept = append(kept, entity)
		}
	}
	log.Debugf("filter kept %d of %d entities", len(kept), len(ds.Entities))
	return &model.Dataset{Entities: kept, Joins: ds.Joins}
}

// NewTransformFilter create a new filter transform
func NewTransformFilter(params config.StageParam) (Transformer, error) {
	log.Debugf("entering NewTransformFilter")
	rules := []api.TransformFilterRule{}
	if params.Transform != nil && params.Transform.Filter != nil {
		rules = params.Transform.Filter.Rules
	}
	transformFilter := &Filter{}
	for _, rule := range rules {
		expression, err := govaluate.NewEvaluableExpression(rule.Expr)
		if err != nil {
			return nil, fmt.Errorf("can't evaluate filter expression %q: %w", rule.Expr, err)
		}
		switch rule.Type {
		case api.TransformFilterOperationName("KeepEntryIf"):
			transformFilter.rules = append(transformFilter.rules, filterRule{keep: true, expression: expression})
		case api.TransformFilterOperationName("RemoveEntryIf"):
			transformFilter.rules = append(transformFilter.rules, filterRule{keep: false, expression: expression})
		default:
			log.Panicf("unknown type %s for transform.Filter rule: %v", rule.Type, rule)
		}
	}
	return transformFilter, nil
}
