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

package model

// SeverityUnlabeled marks entities with no known outcome (test-time rows).
const SeverityUnlabeled = -1

// LabelRow is one row of the base entity table: the unit of prediction,
// its single-valued location attribute and, for training rows, the
// outcome severity class.
type LabelRow struct {
	ID       int64
	Location string
	Severity int
}

// Labeled reports whether the row carries a known outcome class.
func (r *LabelRow) Labeled() bool {
	return r.Severity != SeverityUnlabeled
}

// JoinRow is one row of an (entity id -> category value) join table.
// The same entity may appear on several rows of a multi-valued variable.
type JoinRow struct {
	ID    int64
	Value string
}

// Dataset holds the base entity table plus the per-variable join tables,
// as read by the ingest stage. Joins are keyed by variable name.
type Dataset struct {
	Entities []LabelRow
	Joins    map[string][]JoinRow
}

// LabeledEntities returns only the rows with a known outcome class.
func (d *Dataset) LabeledEntities() []LabelRow {
	out := make([]LabelRow, 0, len(d.Entities))
	for _, e := range d.Entities {
		if e.Labeled() {
			out = append(out, e)
		}
	}
	return out
}

// SeverityByID returns the (entity id -> outcome class) map of the
// labeled rows.
func (d *Dataset) SeverityByID() map[int64]int {
	out := make(map[int64]int, len(d.Entities))
	for _, e := range d.Entities {
		if e.Labeled() {
			out[e.ID] = e.Severity
		}
	}
	return out
}

// FeatureBlock is the set of numeric columns produced for one variable:
// one fixed-width int row per entity id. Entities with no membership in
// the variable keep an all-zero row.
type FeatureBlock struct {
	Columns []string
	Rows    map[int64][]int
}

// FeatureTable is the final flat table: one row per entity id, columns
// being the union of all block columns plus, when emitted, the label
// column. Cell values are non-negative counts except the label column,
// which is SeverityUnlabeled for test-time rows.
type FeatureTable struct {
	Columns []string
	IDs     []int64
	Rows    [][]int
}

// Row returns row i as a generic map including the entity id, the shape
// consumed by the JSON based writers.
func (t *FeatureTable) Row(i int) map[string]interface{} {
	out := make(map[string]interface{}, len(t.Columns)+1)
	out["id"] = t.IDs[i]
	for j, c := range t.Columns {
		out[c] = t.Rows[i][j]
	}
	return out
}
