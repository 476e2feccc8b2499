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
	"testing"

	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestNewAggregator_Invalid(t *testing.T) {
	_, err := NewAggregator("", 3)
	require.Error(t, err)

	_, err = NewAggregator("event_type", 1)
	require.Error(t, err)
}

func TestCountByClass(t *testing.T) {
	agg, err := NewAggregator("event_type", 3)
	require.NoError(t, err)

	join := []model.JoinRow{
		{ID: 1, Value: "X"},
		{ID: 2, Value: "X"},
		{ID: 3, Value: "Y"},
		{ID: 4, Value: "Z"},
		{ID: 5, Value: "X"}, // unlabeled, must not count
	}
	severities := map[int64]int{1: 0, 2: 1, 3: 2, 4: 0}

	counts, err := agg.CountByClass(join, severities)
	require.NoError(t, err)
	require.Equal(t, CategoryCounts{
		"X": {1, 1, 0},
		"Y": {0, 0, 1},
		"Z": {1, 0, 0},
	}, counts)
}

func TestCountByClass_DuplicateRowsAccumulate(t *testing.T) {
	agg, err := NewAggregator("event_type", 2)
	require.NoError(t, err)

	join := []model.JoinRow{
		{ID: 1, Value: "X"},
		{ID: 1, Value: "X"},
		{ID: 2, Value: "X"},
	}
	counts, err := agg.CountByClass(join, map[int64]int{1: 0, 2: 1})
	require.NoError(t, err)
	require.Equal(t, CategoryCounts{"X": {2, 1}}, counts)
}

func TestCountByClass_Errors(t *testing.T) {
	agg, err := NewAggregator("event_type", 3)
	require.NoError(t, err)

	// empty join table
	_, err = agg.CountByClass(nil, map[int64]int{1: 0})
	require.ErrorContains(t, err, "join table is empty")

	// no labeled entities at all
	_, err = agg.CountByClass([]model.JoinRow{{ID: 1, Value: "X"}}, map[int64]int{})
	require.ErrorContains(t, err, "no labeled entities")

	// severity outside the configured classes
	_, err = agg.CountByClass([]model.JoinRow{{ID: 1, Value: "X"}}, map[int64]int{1: 3})
	require.ErrorContains(t, err, "outside the 3 configured classes")

	// labels exist but none intersects the join
	_, err = agg.CountByClass([]model.JoinRow{{ID: 9, Value: "X"}}, map[int64]int{1: 0})
	require.ErrorContains(t, err, "no join row matches a labeled entity")
}
