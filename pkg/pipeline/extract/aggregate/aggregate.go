/*
 * Copyright (C) 2021 IBM, Inc.
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

package aggregate

import (
	"fmt"

	"github.com/netfault/logfeatures-pipeline/pkg/model"
	log "github.com/sirupsen/logrus"
)

// CategoryCounts maps a category value to its per-outcome-class
// occurrence counts. The count slice is always classes long; categories
// never co-occurring with a class keep 0 in that slot.
type CategoryCounts map[string][]int

// Aggregator joins an (entity id -> category value) relation against the
// labeled outcomes and counts, per category value, the occurrences of
// each outcome class. No entity-level information is retained.
type Aggregator struct {
	variable string
	classes  int
}

func NewAggregator(variable string, classes int) (*Aggregator, error) {
	if variable == "" {
		return nil, fmt.Errorf("aggregator variable name not specified")
	}
	if classes < 2 {
		return nil, fmt.Errorf("aggregator for %s: needs at least 2 outcome classes, got %d", variable, classes)
	}
	return &Aggregator{variable: variable, classes: classes}, nil
}

// CountByClass restricts the join to entities with a known outcome and
// accumulates the per-class counts. Duplicate (entity, category) rows
// accumulate; that is the multi-valued join semantics. An empty join or
// an empty label set is a configuration error: aggregating over nothing
// would silently produce an empty bucket table downstream.
func (a *Aggregator) CountByClass(join []model.JoinRow, severities map[int64]int) (CategoryCounts, error) {
	if len(join) == 0 {
		return nil, fmt.Errorf("aggregator for %s: join table is empty", a.variable)
	}
	if len(severities) == 0 {
		return nil, fmt.Errorf("aggregator for %s: no labeled entities", a.variable)
	}
	counts := CategoryCounts{}
	matched := 0
	for _, row := range join {
		sev, ok := severities[row.ID]
		if !ok {
			// test-time entity, not part of the fit
			continue
		}
		if sev >= a.classes {
			return nil, fmt.Errorf("aggregator for %s: entity %d has severity %d outside the %d configured classes",
				a.variable, row.ID, sev, a.classes)
		}
		perClass, ok := counts[row.Value]
		if !ok {
			perClass = make([]int, a.classes)
			counts[row.Value] = perClass
		}
		perClass[sev]++
		matched++
	}
	if matched == 0 {
		return nil, fmt.Errorf("aggregator for %s: no join row matches a labeled entity", a.variable)
	}
	log.Debugf("aggregated %s: %d categories from %d labeled join rows", a.variable, len(counts), matched)
	return counts, nil
}
