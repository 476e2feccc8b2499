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

package write

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var clog = logrus.WithField("component", "write.CSV")

type writeCSV struct {
	filename       string
	recordsWritten prometheus.Counter
}

// Write writes the feature table to the configured csv file, id column
// first, feature columns in table order.
func (w *writeCSV) Write(table *model.FeatureTable) {
	clog.Debugf("entering writeCSV Write")
	file, err := os.Create(w.filename)
	if err != nil {
		clog.Errorf("cannot create %s: %v", w.filename, err)
		return
	}
	defer func() {
		_ = file.Close()
	}()
	cw := csv.NewWriter(file)
	header := append([]string{"id"}, table.Columns...)
	if err := cw.Write(header); err != nil {
		clog.Errorf("error writing csv header: %v", err)
		return
	}
	record := make([]string, len(header))
	for i, row := range table.Rows {
		record[0] = strconv.FormatInt(table.IDs[i], 10)
		for j, cell := range row {
			record[j+1] = strconv.Itoa(cell)
		}
		if err := cw.Write(record); err != nil {
			clog.Errorf("error writing csv row: %v", err)
			return
		}
		w.recordsWritten.Inc()
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		clog.Errorf("error flushing %s: %v", w.filename, err)
		return
	}
	clog.Infof("wrote %d feature rows to %s", len(table.Rows), w.filename)
}

// NewWriteCSV create a new csv writer
func NewWriteCSV(opMetrics *operational.Metrics, params config.StageParam) (Writer, error) {
	clog.Debugf("entering NewWriteCSV")
	if params.Write == nil || params.Write.CSV == nil || params.Write.CSV.Filename == "" {
		return nil, fmt.Errorf("write csv: filename not specified")
	}
	return &writeCSV{
		filename:       params.Write.CSV.Filename,
		recordsWritten: opMetrics.CreateRecordsWrittenCounter(params.Name),
	}, nil
}
