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

package ingest

import (
	"testing"
	"time"

	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/operational"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/utils"
	"github.com/netfault/logfeatures-pipeline/pkg/test"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func testMetrics() *operational.Metrics {
	return operational.NewMetricsWithRegisterer(&config.MetricsSettings{}, prometheus.NewRegistry())
}

func fileParams(entities string, tables map[string]string) config.StageParam {
	return config.StageParam{
		Name: "file",
		Ingest: &config.Ingest{
			Type: api.FileType,
			File: &api.IngestFile{Entities: entities, Tables: tables},
		},
	}
}

func TestIngestFile(t *testing.T) {
	dir := t.TempDir()
	entities := test.WriteCSVTable(t, dir, "entities.csv",
		"id,location,fault_severity",
		"1,site_a,0",
		"2,site_a,1",
		"3,site_b,", // unlabeled test-time row
	)
	events := test.WriteCSVTable(t, dir, "event_type.csv",
		"id,event_type",
		"1,X",
		"1,Y",
		"3,X",
	)

	ingester, err := NewIngestFile(testMetrics(), fileParams(entities, map[string]string{"event_type": events}))
	require.NoError(t, err)

	out := make(chan *model.Dataset, 1)
	ingester.Ingest(out)
	ds := <-out

	require.Equal(t, []model.LabelRow{
		{ID: 1, Location: "site_a", Severity: 0},
		{ID: 2, Location: "site_a", Severity: 1},
		{ID: 3, Location: "site_b", Severity: model.SeverityUnlabeled},
	}, ds.Entities)
	require.Equal(t, []model.JoinRow{
		{ID: 1, Value: "X"},
		{ID: 1, Value: "Y"},
		{ID: 3, Value: "X"},
	}, ds.Joins["event_type"])
}

func TestIngestFile_SeverityColumnAlias(t *testing.T) {
	dir := t.TempDir()
	entities := test.WriteCSVTable(t, dir, "entities.csv",
		"id,location,severity",
		"7,site_c,2",
	)
	ingester, err := NewIngestFile(testMetrics(), fileParams(entities, nil))
	require.NoError(t, err)

	out := make(chan *model.Dataset, 1)
	ingester.Ingest(out)
	ds := <-out
	require.Equal(t, 2, ds.Entities[0].Severity)
}

func TestIngestFile_Errors(t *testing.T) {
	dir := t.TempDir()

	// duplicate entity id
	dup := test.WriteCSVTable(t, dir, "dup.csv",
		"id,location,severity",
		"1,site_a,0",
		"1,site_b,1",
	)
	ingester, err := NewIngestFile(testMetrics(), fileParams(dup, nil))
	require.NoError(t, err)
	out := make(chan *model.Dataset, 1)
	ingester.Ingest(out)
	require.Empty(t, out)

	// missing id column
	noID := test.WriteCSVTable(t, dir, "noid.csv",
		"location,severity",
		"site_a,0",
	)
	ingester, err = NewIngestFile(testMetrics(), fileParams(noID, nil))
	require.NoError(t, err)
	ingester.Ingest(out)
	require.Empty(t, out)

	// header only, no data rows
	empty := test.WriteCSVTable(t, dir, "empty.csv", "id,location,severity")
	ingester, err = NewIngestFile(testMetrics(), fileParams(empty, nil))
	require.NoError(t, err)
	ingester.Ingest(out)
	require.Empty(t, out)
}

func TestNewIngestFile_Validation(t *testing.T) {
	_, err := NewIngestFile(testMetrics(), config.StageParam{
		Ingest: &config.Ingest{Type: api.FileType},
	})
	require.Error(t, err)

	_, err = NewIngestFile(testMetrics(), config.StageParam{
		Ingest: &config.Ingest{Type: api.FileType, File: &api.IngestFile{}},
	})
	require.ErrorContains(t, err, "entities filename not specified")
}

func TestIngestFileLoop_ExitsOnSignal(t *testing.T) {
	dir := t.TempDir()
	entities := test.WriteCSVTable(t, dir, "entities.csv",
		"id,location,severity",
		"1,site_a,0",
	)

	// re-arm the shared exit channel so CloseExitChannel stops the loop
	utils.InitExitChannel()

	ingester, err := NewIngestFile(testMetrics(), config.StageParam{
		Name: "file",
		Ingest: &config.Ingest{
			Type: api.FileLoopType,
			File: &api.IngestFile{Entities: entities, Delay: 1},
		},
	})
	require.NoError(t, err)

	out := make(chan *model.Dataset, 10)
	done := make(chan struct{})
	go func() {
		ingester.Ingest(out)
		close(done)
	}()

	// the first dataset is emitted immediately
	ds := <-out
	require.Len(t, ds.Entities, 1)

	utils.CloseExitChannel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("looping ingester did not stop on the exit signal")
	}
}
