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

package write

import (
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	log "github.com/sirupsen/logrus"
)

type writeStdout struct {
	format string
	out    io.Writer
}

// Write writes the feature table to stdout, one row per line
func (t *writeStdout) Write(table *model.FeatureTable) {
	log.Debugf("entering writeStdout Write")
	log.Debugf("writeStdout: number of rows = %d", len(table.Rows))
	if t.format == "json" {
		var jsonw = jsoniter.ConfigCompatibleWithStandardLibrary
		for i := range table.Rows {
			txt, _ := jsonw.Marshal(table.Row(i))
			fmt.Fprintln(t.out, string(txt))
		}
	} else {
		fmt.Fprintf(t.out, "id,%s\n", strings.Join(table.Columns, ","))
		for i, row := range table.Rows {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = fmt.Sprintf("%d", cell)
			}
			fmt.Fprintf(t.out, "%d,%s\n", table.IDs[i], strings.Join(cells, ","))
		}
	}
}

// NewWriteStdout create a new write
func NewWriteStdout(params config.StageParam) (Writer, error) {
	log.Debugf("entering NewWriteStdout")
	format := ""
	if params.Write != nil && params.Write.Stdout != nil {
		format = params.Write.Stdout.Format
	}
	return &writeStdout{format: format, out: os.Stdout}, nil
}
