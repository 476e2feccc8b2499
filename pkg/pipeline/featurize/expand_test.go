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
	"testing"

	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/extract/bucket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestExpandBuckets(t *testing.T) {
	lookup := &bucket.Lookup{
		Variable: "event_type",
		Classes:  2,
		Buckets:  2,
		Ranks: map[string][]int{
			"X": {1, 2},
			"Y": {2, 1},
		},
	}
	join := []model.JoinRow{
		{ID: 1, Value: "X"},
		{ID: 1, Value: "Y"},
		{ID: 2, Value: "Y"},
	}
	block := ExpandBuckets(join, []int64{1, 2, 3}, lookup, "ev", nil)

	require.Equal(t, []string{"ev_sev0_q1", "ev_sev0_q2", "ev_sev1_q1", "ev_sev1_q2"}, block.Columns)
	// entity 1 belongs to X (ranks 1,2) and Y (ranks 2,1): both accumulate
	require.Equal(t, []int{1, 1, 1, 1}, block.Rows[1])
	require.Equal(t, []int{0, 1, 1, 0}, block.Rows[2])
	// entity 3 has no membership but still gets a zero row
	require.Equal(t, []int{0, 0, 0, 0}, block.Rows[3])
}

func TestExpandBuckets_UnseenCategory(t *testing.T) {
	lookup := &bucket.Lookup{
		Variable: "event_type",
		Classes:  1,
		Buckets:  2,
		Ranks:    map[string][]int{"X": {1}},
	}
	join := []model.JoinRow{
		{ID: 1, Value: "X"},
		{ID: 1, Value: "never_fitted"},
	}
	unseen := prometheus.NewCounter(prometheus.CounterOpts{Name: "unseen"})
	block := ExpandBuckets(join, []int64{1}, lookup, "ev", unseen)

	// the unseen category contributes nothing, the seen one still counts
	require.Equal(t, []int{1, 0}, block.Rows[1])
	require.Equal(t, float64(1), testutil.ToFloat64(unseen))
}

func TestExpandBuckets_JoinOnlyEntity(t *testing.T) {
	lookup := &bucket.Lookup{
		Variable: "event_type",
		Classes:  1,
		Buckets:  1,
		Ranks:    map[string][]int{"X": {1}},
	}
	join := []model.JoinRow{{ID: 42, Value: "X"}}
	block := ExpandBuckets(join, []int64{1}, lookup, "ev", nil)

	// id 42 is absent from the base id list but keeps its row
	require.Equal(t, []int{1}, block.Rows[42])
	require.Equal(t, []int{0}, block.Rows[1])
}
