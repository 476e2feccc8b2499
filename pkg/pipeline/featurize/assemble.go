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

	"github.com/netfault/logfeatures-pipeline/pkg/model"
)

// Assemble left-outer composes the per-variable feature blocks over the
// base entity table: exactly one row per entity id, the union of all
// block columns, zeros where an entity misses a block. Entities that
// appear only in join tables (never in the base table) are appended in
// ascending id order as unlabeled rows, so no entity id is ever dropped.
// The label column comes last; unlabeled rows carry
// model.SeverityUnlabeled there.
func Assemble(entities []model.LabelRow, blocks []*model.FeatureBlock, labelColumn string) (*model.FeatureTable, error) {
	width := 0
	seenCols := map[string]bool{"id": true}
	for _, b := range blocks {
		for _, c := range b.Columns {
			if seenCols[c] {
				return nil, fmt.Errorf("duplicate feature column %s; block prefixes must be unique", c)
			}
			seenCols[c] = true
		}
		width += len(b.Columns)
	}
	if seenCols[labelColumn] {
		return nil, fmt.Errorf("label column %s collides with a feature column", labelColumn)
	}

	ids := make([]int64, 0, len(entities))
	severity := make(map[int64]int, len(entities))
	inBase := make(map[int64]bool, len(entities))
	for _, e := range entities {
		if inBase[e.ID] {
			return nil, fmt.Errorf("duplicate entity id %d in base table", e.ID)
		}
		inBase[e.ID] = true
		ids = append(ids, e.ID)
		severity[e.ID] = e.Severity
	}
	var extras []int64
	extraSeen := map[int64]bool{}
	for _, b := range blocks {
		for id := range b.Rows {
			if !inBase[id] && !extraSeen[id] {
				extraSeen[id] = true
				extras = append(extras, id)
			}
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	ids = append(ids, extras...)

	columns := make([]string, 0, width+1)
	for _, b := range blocks {
		columns = append(columns, b.Columns...)
	}
	columns = append(columns, labelColumn)

	rows := make([][]int, len(ids))
	for i, id := range ids {
		row := make([]int, 0, width+1)
		for _, b := range blocks {
			if cells, ok := b.Rows[id]; ok {
				row = append(row, cells...)
			} else {
				row = append(row, make([]int, len(b.Columns))...)
			}
		}
		sev, ok := severity[id]
		if !ok {
			sev = model.SeverityUnlabeled
		}
		row = append(row, sev)
		rows[i] = row
	}
	return &model.FeatureTable{Columns: columns, IDs: ids, Rows: rows}, nil
}
