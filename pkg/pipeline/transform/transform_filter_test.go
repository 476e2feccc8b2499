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
	"testing"

	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/stretchr/testify/require"
)

func filterParams(rules ...api.TransformFilterRule) config.StageParam {
	return config.StageParam{
		Name: "filter",
		Transform: &config.Transform{
			Type:   api.FilterType,
			Filter: &api.TransformFilter{Rules: rules},
		},
	}
}

func filterDataset() *model.Dataset {
	return &model.Dataset{
		Entities: []model.LabelRow{
			{ID: 1, Location: "site_a", Severity: 0},
			{ID: 2, Location: "site_b", Severity: 1},
			{ID: 3, Location: "site_b", Severity: model.SeverityUnlabeled},
		},
		Joins: map[string][]model.JoinRow{
			"event_type": {{ID: 1, Value: "X"}, {ID: 3, Value: "Y"}},
		},
	}
}

func TestTransformFilter_KeepEntryIf(t *testing.T) {
	filter, err := NewTransformFilter(filterParams(
		api.TransformFilterRule{Type: "keep_entry_if", Expr: "severity >= 0"},
	))
	require.NoError(t, err)

	out := filter.Transform(filterDataset())
	require.Equal(t, []model.LabelRow{
		{ID: 1, Location: "site_a", Severity: 0},
		{ID: 2, Location: "site_b", Severity: 1},
	}, out.Entities)
	// join tables pass through untouched
	require.Len(t, out.Joins["event_type"], 2)
}

func TestTransformFilter_RemoveEntryIf(t *testing.T) {
	filter, err := NewTransformFilter(filterParams(
		api.TransformFilterRule{Type: "remove_entry_if", Expr: "location == 'site_b'"},
	))
	require.NoError(t, err)

	out := filter.Transform(filterDataset())
	require.Equal(t, []model.LabelRow{
		{ID: 1, Location: "site_a", Severity: 0},
	}, out.Entities)
}

func TestTransformFilter_CombinedRules(t *testing.T) {
	filter, err := NewTransformFilter(filterParams(
		api.TransformFilterRule{Type: "keep_entry_if", Expr: "severity >= 0"},
		api.TransformFilterRule{Type: "remove_entry_if", Expr: "id == 2"},
	))
	require.NoError(t, err)

	out := filter.Transform(filterDataset())
	require.Equal(t, []model.LabelRow{
		{ID: 1, Location: "site_a", Severity: 0},
	}, out.Entities)
}

func TestNewTransformFilter_BadExpression(t *testing.T) {
	_, err := NewTransformFilter(filterParams(
		api.TransformFilterRule{Type: "keep_entry_if", Expr: "severity >="},
	))
	require.Error(t, err)
}

func TestNewTransformFilter_UnknownType(t *testing.T) {
	require.Panics(t, func() {
		_, _ = NewTransformFilter(filterParams(
			api.TransformFilterRule{Type: "bogus", Expr: "severity >= 0"},
		))
	})
}

func TestTransformNone(t *testing.T) {
	none, err := NewTransformNone()
	require.NoError(t, err)
	ds := filterDataset()
	require.Equal(t, ds, none.Transform(ds))
}
