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

package write

import (
	"sync"

	"github.com/netfault/logfeatures-pipeline/pkg/model"
	log "github.com/sirupsen/logrus"
)

// Fake collects written tables for tests.
type Fake struct {
	mutex  sync.Mutex
	Tables []*model.FeatureTable
}

// Write stores in memory all the tables it receives
func (w *Fake) Write(table *model.FeatureTable) {
	log.Debugf("entering writeFake Write")
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.Tables = append(w.Tables, table)
}

// Count returns the number of tables written so far.
func (w *Fake) Count() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return len(w.Tables)
}

// Last returns the most recent written table, or nil.
func (w *Fake) Last() *model.FeatureTable {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if len(w.Tables) == 0 {
		return nil
	}
	return w.Tables[len(w.Tables)-1]
}

// NewWriteFake creates a new write.Fake
func NewWriteFake() (Writer, error) {
	return &Fake{}, nil
}
