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

package featurize

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/pipeline/extract/bucket"
	"github.com/pkg/errors"
)

const artifactsFileName = "lookups.json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Artifacts is the fitted, immutable state of the transform: the bucket
// lookup per high-cardinality variable and the one-hot vocabulary per
// small variable. Serialized so a fit can be reused identically between
// training-time and test-time feature generation.
type Artifacts struct {
	Buckets map[string]*bucket.Lookup `json:"buckets"`
	Vocabs  map[string][]string       `json:"vocabs"`
}

// artifacts loads the fitted state from the lookup directory when
// present; otherwise it fits from the dataset and, when a lookup
// directory is configured, persists the result.
func (f *featurize) artifacts(ds *model.Dataset) (*Artifacts, error) {
	if f.cfg.LookupDir != "" {
		path := filepath.Join(f.cfg.LookupDir, artifactsFileName)
		if _, err := os.Stat(path); err == nil {
			arts, err := LoadArtifacts(path)
			if err != nil {
				return nil, err
			}
			if err := f.validateLoaded(arts); err != nil {
				return nil, err
			}
			flog.Infof("loaded fitted lookups from %s", path)
			return arts, nil
		}
	}
	arts, err := f.fit(ds)
	if err != nil {
		return nil, err
	}
	if f.cfg.LookupDir != "" {
		path := filepath.Join(f.cfg.LookupDir, artifactsFileName)
		if err := SaveArtifacts(path, arts); err != nil {
			return nil, err
		}
		flog.Infof("saved fitted lookups to %s", path)
	}
	return arts, nil
}

func (f *featurize) validateLoaded(arts *Artifacts) error {
	for _, v := range f.cfg.Variables {
		lookup, ok := arts.Buckets[v.Name]
		if !ok {
			return errors.Errorf("loaded lookups have no entry for variable %s", v.Name)
		}
		if err := lookup.Validate(v.Name, f.cfg.Classes, v.Buckets); err != nil {
			return err
		}
	}
	for _, v := range f.cfg.OneHot {
		if len(arts.Vocabs[v.Name]) == 0 {
			return errors.Errorf("loaded lookups have no vocabulary for variable %s", v.Name)
		}
	}
	return nil
}

func SaveArtifacts(path string, arts *Artifacts) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating lookup directory")
	}
	b, err := json.MarshalIndent(arts, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding lookups")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "writing lookups")
	}
	return nil
}

func LoadArtifacts(path string) (*Artifacts, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading lookups")
	}
	arts := Artifacts{}
	if err := json.Unmarshal(b, &arts); err != nil {
		return nil, errors.Wrap(err, "decoding lookups")
	}
	return &arts, nil
}
