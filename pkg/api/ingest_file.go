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

package api

type IngestFile struct {
	Entities string            `yaml:"entities" json:"entities" doc:"path of the base entity csv table (columns: id, location and optionally severity)"`
	Tables   map[string]string `yaml:"tables" json:"tables" doc:"per-variable join table csv paths (columns: id, value), keyed by variable name"`
	Delay    int64             `yaml:"delay,omitempty" json:"delay,omitempty" doc:"seconds between re-emissions in file_loop mode (default 10)"`
}
