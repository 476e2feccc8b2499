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

type TransformFilter struct {
	Rules []TransformFilterRule `yaml:"rules,omitempty" json:"rules,omitempty" doc:"list of filter rules, each includes:"`
}

type TransformFilterRule struct {
	Type string `yaml:"type,omitempty" json:"type,omitempty" enum:"TransformFilterOperationEnum" doc:"one of the following:"`
	Expr string `yaml:"expr,omitempty" json:"expr,omitempty" doc:"expression over the entity fields id, location and severity"`
}

type TransformFilterOperationEnum struct {
	KeepEntryIf   string `yaml:"keep_entry_if" json:"keep_entry_if" doc:"keeps the entity row only when the expression evaluates true"`
	RemoveEntryIf string `yaml:"remove_entry_if" json:"remove_entry_if" doc:"removes the entity row when the expression evaluates true"`
}

func TransformFilterOperationName(operation string) string {
	return GetEnumName(TransformFilterOperationEnum{}, operation)
}
