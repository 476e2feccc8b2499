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

package config

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type Options struct {
	PipeLine        string
	Parameters      string
	MetricsSettings string
	Health          Health
	Profile         Profile
}

type Health struct {
	Address string
	Port    string
}

type Profile struct {
	Port int
}

// MetricsSettings is the global configuration of the operational
// /metrics endpoint.
type MetricsSettings struct {
	Address             string `yaml:"address,omitempty" json:"address,omitempty"`
	Port                int    `yaml:"port,omitempty" json:"port,omitempty"`
	Prefix              string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	NoPanic             bool   `yaml:"noPanic,omitempty" json:"noPanic,omitempty"`
	SuppressGoMetrics   bool   `yaml:"suppressGoMetrics,omitempty" json:"suppressGoMetrics,omitempty"`
	DisableGlobalServer bool   `yaml:"disableGlobalServer,omitempty" json:"disableGlobalServer,omitempty"`
}

// ConfigFileStruct is the --config file format, and the built
// representation of the CLI json options.
type ConfigFileStruct struct {
	LogLevel        string          `yaml:"log-level,omitempty" json:"log-level,omitempty"`
	MetricsSettings MetricsSettings `yaml:"metricsSettings,omitempty" json:"metricsSettings,omitempty"`
	Pipeline        []Stage         `yaml:"pipeline,omitempty" json:"pipeline,omitempty"`
	Parameters      []StageParam    `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

type Stage struct {
	Name    string `yaml:"name" json:"name"`
	Follows string `yaml:"follows,omitempty" json:"follows,omitempty"`
}

type StageParam struct {
	Name      string     `yaml:"name" json:"name"`
	Ingest    *Ingest    `yaml:"ingest,omitempty" json:"ingest,omitempty"`
	Transform *Transform `yaml:"transform,omitempty" json:"transform,omitempty"`
	Featurize *Featurize `yaml:"featurize,omitempty" json:"featurize,omitempty"`
	Write     *Write     `yaml:"write,omitempty" json:"write,omitempty"`
}

type Ingest struct {
	Type string          `yaml:"type" json:"type"`
	File *api.IngestFile `yaml:"file,omitempty" json:"file,omitempty"`
}

type Transform struct {
	Type   string               `yaml:"type" json:"type"`
	Filter *api.TransformFilter `yaml:"filter,omitempty" json:"filter,omitempty"`
}

type Featurize struct {
	Type      string         `yaml:"type" json:"type"`
	Featurize *api.Featurize `yaml:"featurize,omitempty" json:"featurize,omitempty"`
}

type Write struct {
	Type   string           `yaml:"type" json:"type"`
	CSV    *api.WriteCSV    `yaml:"csv,omitempty" json:"csv,omitempty"`
	Stdout *api.WriteStdout `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Kafka  *api.WriteKafka  `yaml:"kafka,omitempty" json:"kafka,omitempty"`
	S3     *api.WriteS3     `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// ParseConfig creates the internal unmarshalled representation from the
// Pipeline and Parameters json strings.
func ParseConfig(opts *Options) (ConfigFileStruct, error) {
	out := ConfigFileStruct{}
	logrus.Debugf("opts.PipeLine = %v ", opts.PipeLine)
	err := json.Unmarshal([]byte(opts.PipeLine), &out.Pipeline)
	if err != nil {
		return out, errors.Wrap(err, "error reading config pipeline")
	}
	logrus.Debugf("stages = %v ", out.Pipeline)

	err = json.Unmarshal([]byte(opts.Parameters), &out.Parameters)
	if err != nil {
		return out, errors.Wrap(err, "error reading config parameters")
	}
	logrus.Debugf("params = %v ", out.Parameters)

	if opts.MetricsSettings != "" {
		err = json.Unmarshal([]byte(opts.MetricsSettings), &out.MetricsSettings)
		if err != nil {
			return out, errors.Wrap(err, "error reading config metrics settings")
		}
		logrus.Debugf("metrics settings = %v ", out.MetricsSettings)
	}
	return out, nil
}

// ParseConfigFile builds the configuration from a raw yaml document,
// e.g. the --config file content.
func ParseConfigFile(raw []byte) (ConfigFileStruct, error) {
	out := ConfigFileStruct{}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return out, errors.Wrap(err, "error parsing yaml config")
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          api.TagYaml,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(normalizeYaml(tree)); err != nil {
		return out, errors.Wrap(err, "error decoding yaml config")
	}
	return out, nil
}

// yaml.v2 produces map[interface{}]interface{} nodes, which mapstructure
// does not traverse; rebuild the tree with string keys.
func normalizeYaml(in interface{}) interface{} {
	switch v := in.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			out[toString(key)] = normalizeYaml(value)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			out[key] = normalizeYaml(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, value := range v {
			out[i] = normalizeYaml(value)
		}
		return out
	default:
		return in
	}
}

func toString(key interface{}) string {
	if s, ok := key.(string); ok {
		return s
	}
	b, _ := json.Marshal(key)
	return string(b)
}
