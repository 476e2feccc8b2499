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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestFitVocabulary(t *testing.T) {
	join := []model.JoinRow{
		{ID: 1, Value: "resource_type 8"},
		{ID: 2, Value: "resource_type 2"},
		{ID: 3, Value: "resource_type 8"},
		{ID: 9, Value: "resource_type 5"}, // unlabeled, excluded from the vocabulary
	}
	vocab, err := FitVocabulary("resource_type", join, map[int64]int{1: 0, 2: 1, 3: 0})
	require.NoError(t, err)
	require.Equal(t, []string{"resource_type 2", "resource_type 8"}, vocab)
}

func TestFitVocabulary_Errors(t *testing.T) {
	_, err := FitVocabulary("resource_type", nil, map[int64]int{1: 0})
	require.ErrorContains(t, err, "join table is empty")

	_, err = FitVocabulary("resource_type", []model.JoinRow{{ID: 9, Value: "a"}}, map[int64]int{1: 0})
	require.ErrorContains(t, err, "no join row matches a labeled entity")
}

func TestExpandOneHot(t *testing.T) {
	vocab := []string{"resource_type 2", "resource_type 8"}
	join := []model.JoinRow{
		{ID: 1, Value: "resource_type 8"},
		{ID: 1, Value: "resource_type 8"},
		{ID: 2, Value: "resource_type 2"},
		{ID: 3, Value: "resource_type 5"},
	}
	unseen := prometheus.NewCounter(prometheus.CounterOpts{Name: "unseen"})
	block := ExpandOneHot(join, []int64{1, 2, 3}, vocab, "rt", unseen)

	require.Equal(t, []string{"rt_resource_type_2", "rt_resource_type_8"}, block.Columns)
	// duplicate memberships accumulate
	require.Equal(t, []int{0, 2}, block.Rows[1])
	require.Equal(t, []int{1, 0}, block.Rows[2])
	// out-of-vocabulary value: zero row, counted as unseen
	require.Equal(t, []int{0, 0}, block.Rows[3])
	require.Equal(t, float64(1), testutil.ToFloat64(unseen))
}

func TestSanitizeColumn(t *testing.T) {
	require.Equal(t, "resource_type_8", sanitizeColumn("resource type 8"))
	require.Equal(t, "a_b_c", sanitizeColumn("a-b/c"))
	require.Equal(t, "plain_value", sanitizeColumn("plain_value"))
}
