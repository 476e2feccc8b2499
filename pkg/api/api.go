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

const TagYaml = "yaml"
const TagDoc = "doc"
const TagEnum = "enum"

const (
	FileType      = "file"
	FileLoopType  = "file_loop"
	FilterType    = "filter"
	FeaturizeType = "featurize"
	CSVType       = "csv"
	StdoutType    = "stdout"
	KafkaType     = "kafka"
	S3Type        = "s3"
	FakeType      = "fake"
	NoneType      = "none"
)

// Note: items beginning with doc: "## title" are top level items that get divided into sections inside api.md.

type API struct {
	IngestFile      IngestFile      `yaml:"file" doc:"## File ingest API\nFollowing is the supported API format for csv table ingest:\n"`
	TransformFilter TransformFilter `yaml:"filter" doc:"## Transform Filter API\nFollowing is the supported API format for entity row filtering:\n"`
	Featurize       Featurize       `yaml:"featurize" doc:"## Featurize API\nFollowing is the supported API format for the frequency-bucketing feature transform:\n"`
	WriteCSV        WriteCSV        `yaml:"csv" doc:"## Write CSV API\nFollowing is the supported API format for writing the feature table to a csv file:\n"`
	WriteKafka      WriteKafka      `yaml:"kafka" doc:"## Write Kafka API\nFollowing is the supported API format for writing feature rows to kafka:\n"`
	WriteS3         WriteS3         `yaml:"s3" doc:"## Write S3 API\nFollowing is the supported API format for writing feature objects to S3:\n"`
	WriteStdout     WriteStdout     `yaml:"stdout" doc:"## Write Standard Output API\nFollowing is the supported API format for writing the feature table to standard output:\n"`
}
