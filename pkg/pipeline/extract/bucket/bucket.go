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

package bucket

import (
	"fmt"
	"sort"

	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/extract/aggregate"
	log "github.com/sirupsen/logrus"
)

// Lookup is the fitted bucket assignment of one variable: for each
// category observed during fitting, one ordinal rank in 1..Buckets per
// outcome class. The lookup is immutable after fitting and is reused
// verbatim for both training and test feature generation.
type Lookup struct {
	Variable string           `json:"variable"`
	Classes  int              `json:"classes"`
	Buckets  int              `json:"buckets"`
	Ranks    map[string][]int `json:"ranks"`
}

// Fit partitions, for each outcome class independently, the per-category
// count vector into equal-frequency buckets.
//
// Cut points are taken by nearest rank on the ascending-sorted vector:
// cut[j] = sorted[(j*n)/g] for j in 1..g-1. A count v gets rank
// 1 + |{j : v >= cut[j]}|. The rank is a pure function of the count, so
// equal counts always share a bucket; that is the tie rule. When fewer
// distinct counts exist than buckets, duplicate cut points collapse and
// the ranks they would separate stay unpopulated; the rank range is
// always 1..g so the output schema keeps a fixed width.
func Fit(variable string, counts aggregate.CategoryCounts, classes int, buckets int) (*Lookup, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("bucketer for %s: bucket count must be positive, got %d", variable, buckets)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("bucketer for %s: no category counts to partition", variable)
	}
	lookup := &Lookup{
		Variable: variable,
		Classes:  classes,
		Buckets:  buckets,
		Ranks:    make(map[string][]int, len(counts)),
	}
	for category := range counts {
		lookup.Ranks[category] = make([]int, classes)
	}
	vector := make([]int, 0, len(counts))
	for class := 0; class < classes; class++ {
		vector = vector[:0]
		for _, perClass := range counts {
			vector = append(vector, perClass[class])
		}
		sort.Ints(vector)
		cuts := cutPoints(vector, buckets)
		for category, perClass := range counts {
			lookup.Ranks[category][class] = rankOf(perClass[class], cuts)
		}
	}
	log.Debugf("fitted %s: %d categories into %d buckets x %d classes", variable, len(lookup.Ranks), buckets, classes)
	return lookup, nil
}

// cutPoints returns the g-1 nearest-rank quantile boundaries of the
// ascending-sorted vector.
func cutPoints(sorted []int, g int) []int {
	n := len(sorted)
	cuts := make([]int, 0, g-1)
	for j := 1; j < g; j++ {
		idx := (j * n) / g
		if idx > n-1 {
			idx = n - 1
		}
		cuts = append(cuts, sorted[idx])
	}
	return cuts
}

func rankOf(v int, cuts []int) int {
	rank := 1
	for _, c := range cuts {
		if v >= c {
			rank++
		}
	}
	return rank
}

// RanksOf returns the per-class bucket ranks of a category, or false for
// categories never observed during fitting.
func (l *Lookup) RanksOf(category string) ([]int, bool) {
	ranks, ok := l.Ranks[category]
	return ranks, ok
}

// Validate checks a deserialized lookup against the configured shape.
func (l *Lookup) Validate(variable string, classes int, buckets int) error {
	if l.Variable != variable {
		return fmt.Errorf("lookup is for variable %s, expected %s", l.Variable, variable)
	}
	if l.Classes != classes || l.Buckets != buckets {
		return fmt.Errorf("lookup for %s was fitted with %d classes x %d buckets, configured %d x %d",
			variable, l.Classes, l.Buckets, classes, buckets)
	}
	for category, ranks := range l.Ranks {
		if len(ranks) != classes {
			return fmt.Errorf("lookup for %s: category %s has %d ranks, expected %d", variable, category, len(ranks), classes)
		}
		for _, r := range ranks {
			if r < 1 || r > buckets {
				return fmt.Errorf("lookup for %s: category %s has rank %d outside 1..%d", variable, category, r, buckets)
			}
		}
	}
	return nil
}
