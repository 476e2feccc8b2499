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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/operational"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ilog = logrus.WithField("component", "ingest.File")

const defaultLoopDelay = 10

type ingestFile struct {
	params    api.IngestFile
	loop      bool
	delay     time.Duration
	opMetrics *operational.Metrics
	exitChan  <-chan struct{}
}

// Ingest reads the configured csv tables into a Dataset and emits it. In
// file_loop mode the same dataset is re-emitted every delay interval
// until an exit signal arrives.
func (r *ingestFile) Ingest(out chan<- *model.Dataset) {
	ds, err := r.readTables()
	if err != nil {
		ilog.Errorf("failed to ingest tables: %v", err)
		return
	}
	ilog.Infof("ingested %d entities and %d join tables", len(ds.Entities), len(ds.Joins))
	out <- ds
	if !r.loop {
		return
	}
	ticker := time.NewTicker(r.delay)
	defer ticker.Stop()
	for {
		select {
		case <-r.exitChan:
			ilog.Debugf("exiting ingestFile because of signal")
			return
		case <-ticker.C:
			out <- ds
		}
	}
}

func (r *ingestFile) readTables() (*model.Dataset, error) {
	entities, err := readEntityTable(r.params.Entities)
	if err != nil {
		return nil, err
	}
	r.opMetrics.TableRowsRead("entities").Add(float64(len(entities)))
	joins := make(map[string][]model.JoinRow, len(r.params.Tables))
	for variable, path := range r.params.Tables {
		rows, err := readJoinTable(path)
		if err != nil {
			return nil, errors.Wrapf(err, "table %s", variable)
		}
		r.opMetrics.TableRowsRead(variable).Add(float64(len(rows)))
		joins[variable] = rows
	}
	return &model.Dataset{Entities: entities, Joins: joins}, nil
}

// readEntityTable reads the base entity table. Columns: id, location and
// optionally severity; rows with an empty severity cell are unlabeled.
func readEntityTable(path string) ([]model.LabelRow, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idCol, err := columnIndex(header, "id", path)
	if err != nil {
		return nil, err
	}
	locCol := -1
	sevCol := -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "location":
			locCol = i
		case "severity", "fault_severity":
			sevCol = i
		}
	}
	if locCol < 0 {
		return nil, fmt.Errorf("entity table %s has no location column", path)
	}
	seen := make(map[int64]bool, len(records))
	out := make([]model.LabelRow, 0, len(records))
	for n, rec := range records {
		id, err := strconv.ParseInt(strings.TrimSpace(rec[idCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad entity id %q", path, n+2, rec[idCol])
		}
		if seen[id] {
			return nil, fmt.Errorf("%s row %d: duplicate entity id %d", path, n+2, id)
		}
		seen[id] = true
		row := model.LabelRow{ID: id, Location: strings.TrimSpace(rec[locCol]), Severity: model.SeverityUnlabeled}
		if sevCol >= 0 && strings.TrimSpace(rec[sevCol]) != "" {
			sev, err := strconv.Atoi(strings.TrimSpace(rec[sevCol]))
			if err != nil || sev < 0 {
				return nil, fmt.Errorf("%s row %d: bad severity %q", path, n+2, rec[sevCol])
			}
			row.Severity = sev
		}
		out = append(out, row)
	}
	return out, nil
}

// readJoinTable reads an (id, value) join table. The value column is the
// first non-id column, whatever its header says (source tables name it
// after the variable, e.g. event_type).
func readJoinTable(path string) ([]model.JoinRow, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idCol, err := columnIndex(header, "id", path)
	if err != nil {
		return nil, err
	}
	valCol := -1
	for i := range header {
		if i != idCol {
			valCol = i
			break
		}
	}
	if valCol < 0 {
		return nil, fmt.Errorf("join table %s has no value column", path)
	}
	out := make([]model.JoinRow, 0, len(records))
	for n, rec := range records {
		id, err := strconv.ParseInt(strings.TrimSpace(rec[idCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad entity id %q", path, n+2, rec[idCol])
		}
		out = append(out, model.JoinRow{ID: id, Value: strings.TrimSpace(rec[valCol])})
	}
	return out, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening csv table")
	}
	defer func() {
		_ = file.Close()
	}()
	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("csv table %s is empty", path)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading csv header of %s", path)
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading csv rows of %s", path)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv table %s has no data rows", path)
	}
	return header, records, nil
}

func columnIndex(header []string, name string, path string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("csv table %s has no %s column", path, name)
}

// NewIngestFile create a new file ingester
func NewIngestFile(opMetrics *operational.Metrics, params config.StageParam) (Ingester, error) {
	ilog.Debugf("entering NewIngestFile")
	if params.Ingest == nil || params.Ingest.File == nil {
		return nil, fmt.Errorf("ingest file parameters not specified")
	}
	file := *params.Ingest.File
	if file.Entities == "" {
		return nil, fmt.Errorf("ingest entities filename not specified")
	}
	delay := file.Delay
	if delay == 0 {
		delay = defaultLoopDelay
	}
	ilog.Infof("entity table = %s, %d join tables", file.Entities, len(file.Tables))
	return &ingestFile{
		params:    file,
		loop:      params.Ingest.Type == api.FileLoopType,
		delay:     time.Duration(delay) * time.Second,
		opMetrics: opMetrics,
		exitChan:  utils.ExitChannel(),
	}, nil
}
