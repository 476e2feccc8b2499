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

package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/stretchr/testify/require"
)

// InitConfig parses a yaml pipeline configuration the same way the
// --config file is parsed at startup.
func InitConfig(t *testing.T, conf string) config.ConfigFileStruct {
	t.Helper()
	cfg, err := config.ParseConfigFile([]byte(conf))
	require.NoError(t, err)
	return cfg
}

// WriteCSVTable writes a csv table fixture under dir and returns its path.
// Each line is a raw csv row, the first one being the header.
func WriteCSVTable(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600)
	require.NoError(t, err)
	return path
}

// SampleDataset returns a small labeled dataset shared by the featurize
// and pipeline tests: five entities in two locations, three severity
// classes (entity 5 unlabeled), and one event_type join table.
func SampleDataset() *model.Dataset {
	return &model.Dataset{
		Entities: []model.LabelRow{
			{ID: 1, Location: "site_a", Severity: 0},
			{ID: 2, Location: "site_a", Severity: 1},
			{ID: 3, Location: "site_b", Severity: 2},
			{ID: 4, Location: "site_b", Severity: 0},
			{ID: 5, Location: "site_a", Severity: model.SeverityUnlabeled},
		},
		Joins: map[string][]model.JoinRow{
			"event_type": {
				{ID: 1, Value: "X"},
				{ID: 2, Value: "X"},
				{ID: 3, Value: "Y"},
				{ID: 4, Value: "Z"},
				{ID: 5, Value: "X"},
			},
		},
	}
}
