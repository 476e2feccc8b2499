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

	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/extract/bucket"
	"github.com/prometheus/client_golang/prometheus"
)

// ExpandBuckets maps the bucketed category labels back onto the
// (entity -> category) relation: one count column per (outcome class,
// bucket rank), accumulated over all of an entity's category
// memberships. The accumulator array replaces the wide pivot-then-sum
// reshuffle: one pass over the join, incrementing slot class*g+rank-1.
//
// Every id in ids gets a row, all-zero when the entity has no
// membership. Categories absent from the lookup (apply-time unseen
// values) contribute nothing.
func ExpandBuckets(join []model.JoinRow, ids []int64, lk *bucket.Lookup, prefix string, unseen prometheus.Counter) *model.FeatureBlock {
	width := lk.Classes * lk.Buckets
	columns := make([]string, 0, width)
	for class := 0; class < lk.Classes; class++ {
		for rank := 1; rank <= lk.Buckets; rank++ {
			columns = append(columns, fmt.Sprintf("%s_sev%d_q%d", prefix, class, rank))
		}
	}
	rows := make(map[int64][]int, len(ids))
	for _, id := range ids {
		rows[id] = make([]int, width)
	}
	for _, jr := range join {
		ranks, ok := lk.RanksOf(jr.Value)
		if !ok {
			if unseen != nil {
				unseen.Inc()
			}
			continue
		}
		row, ok := rows[jr.ID]
		if !ok {
			row = make([]int, width)
			rows[jr.ID] = row
		}
		for class, rank := range ranks {
			row[class*lk.Buckets+rank-1]++
		}
	}
	return &model.FeatureBlock{Columns: columns, Rows: rows}
}
