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
	"sort"
	"strings"

	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
)

// FitVocabulary collects the sorted distinct category values of a
// small-cardinality variable among labeled entities. The vocabulary
// fixes the one-hot column set, so test data aligns with training.
func FitVocabulary(variable string, join []model.JoinRow, severities map[int64]int) ([]string, error) {
	if len(join) == 0 {
		return nil, fmt.Errorf("one-hot for %s: join table is empty", variable)
	}
	distinct := map[string]bool{}
	for _, jr := range join {
		if _, ok := severities[jr.ID]; ok {
			distinct[jr.Value] = true
		}
	}
	if len(distinct) == 0 {
		return nil, fmt.Errorf("one-hot for %s: no join row matches a labeled entity", variable)
	}
	vocab := make([]string, 0, len(distinct))
	for v := range distinct {
		vocab = append(vocab, v)
	}
	sort.Strings(vocab)
	return vocab, nil
}

// ExpandOneHot is the direct one-hot counterpart of ExpandBuckets: one
// count column per vocabulary value, summed over the entity's
// memberships, zero rows for absent entities and nothing for values
// outside the fitted vocabulary.
func ExpandOneHot(join []model.JoinRow, ids []int64, vocab []string, prefix string, unseen prometheus.Counter) *model.FeatureBlock {
	columns := make([]string, len(vocab))
	slots := make(map[string]int, len(vocab))
	for i, v := range vocab {
		columns[i] = fmt.Sprintf("%s_%s", prefix, sanitizeColumn(v))
		slots[v] = i
	}
	rows := make(map[int64][]int, len(ids))
	for _, id := range ids {
		rows[id] = make([]int, len(vocab))
	}
	for _, jr := range join {
		slot, ok := slots[jr.Value]
		if !ok {
			if unseen != nil {
				unseen.Inc()
			}
			continue
		}
		row, ok := rows[jr.ID]
		if !ok {
			row = make([]int, len(vocab))
			rows[jr.ID] = row
		}
		row[slot]++
	}
	return &model.FeatureBlock{Columns: columns, Rows: rows}
}

// source tables carry values like "resource_type 8"; keep column names
// csv and prometheus friendly
func sanitizeColumn(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, value)
}
