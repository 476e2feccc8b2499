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

package api

const (
	// JoinKeyEntity joins a variable through its own (id, value) table.
	JoinKeyEntity = "entity"
	// JoinKeyLocation derives the membership from the entity's
	// single-valued location attribute in the base table.
	JoinKeyLocation = "location"
)

type Featurize struct {
	Classes     int              `yaml:"classes,omitempty" json:"classes,omitempty" doc:"number of outcome severity classes; fixed by the domain, never inferred from data (default 3)"`
	LabelColumn string           `yaml:"labelColumn,omitempty" json:"labelColumn,omitempty" doc:"name of the label column appended to the output table (default severity)"`
	LookupDir   string           `yaml:"lookupDir,omitempty" json:"lookupDir,omitempty" doc:"directory holding the fitted bucket lookups; when the artifacts file exists it is loaded instead of refitted"`
	Variables   []BucketVariable `yaml:"variables,omitempty" json:"variables,omitempty" doc:"high-cardinality variables to frequency-bucket, each includes:"`
	OneHot      []OneHotVariable `yaml:"oneHot,omitempty" json:"oneHot,omitempty" doc:"small-cardinality variables to one-hot encode, each includes:"`
}

type BucketVariable struct {
	Name    string `yaml:"name" json:"name" doc:"variable name, referencing an ingested join table (or the location attribute)"`
	Prefix  string `yaml:"prefix,omitempty" json:"prefix,omitempty" doc:"output column prefix (default: the variable name)"`
	Buckets int    `yaml:"buckets" json:"buckets" doc:"number of quantile buckets per outcome class, tuned to the variable cardinality"`
	Key     string `yaml:"key,omitempty" json:"key,omitempty" doc:"join key: entity (default) or location"`
}

type OneHotVariable struct {
	Name   string `yaml:"name" json:"name" doc:"variable name, referencing an ingested join table"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty" doc:"output column prefix (default: the variable name)"`
}
