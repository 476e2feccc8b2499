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
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	log "github.com/sirupsen/logrus"
)

type Writer interface {
	Write(table *model.FeatureTable)
}

type writeNone struct {
}

// Write writes entries
func (t *writeNone) Write(table *model.FeatureTable) {
	log.Debugf("entering writeNone Write")
}

// NewWriteNone create a new write
func NewWriteNone() (Writer, error) {
	return &writeNone{}, nil
}
