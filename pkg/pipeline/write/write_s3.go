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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	s3StoreVersion = "1.0"
	defaultS3Batch = 1000
)

type s3ObjectWriter interface {
	putObject(bucket string, objectName string, object map[string]interface{}) error
}

type writeS3 struct {
	s3Params       api.WriteS3
	s3Writer       s3ObjectWriter
	clock          clock.Clock
	sequenceNumber int64
	streamID       string
	recordsWritten prometheus.Counter
}

type realS3Writer struct {
	client *minio.Client
}

func (w *realS3Writer) putObject(bucket string, objectName string, object map[string]interface{}) error {
	b := new(bytes.Buffer)
	if err := json.NewEncoder(b).Encode(object); err != nil {
		return err
	}
	uploadInfo, err := w.client.PutObject(context.Background(), bucket, objectName, b, int64(b.Len()),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	log.Debugf("uploadInfo = %v", uploadInfo)
	return err
}

// Write splits the feature table into batches of batchSize rows and
// stores one object per batch, named by capture time, stream id and
// sequence number.
func (s *writeS3) Write(table *model.FeatureTable) {
	log.Debugf("entering writeS3 Write, #rows = %d", len(table.Rows))
	batch := make([]map[string]interface{}, 0, s.s3Params.BatchSize)
	start := s.clock.Now()
	flush := func() {
		if len(batch) == 0 {
			return
		}
		now := s.clock.Now()
		object := s.GenerateStoreHeader(batch, start, now)
		objectName := s.objectName(now)
		if err := s.s3Writer.putObject(s.s3Params.Bucket, objectName, object); err != nil {
			log.Errorf("error writing to object store: %v", err)
			return
		}
		s.recordsWritten.Add(float64(len(batch)))
		s.sequenceNumber++
		start = now
		batch = batch[:0]
	}
	for i := range table.Rows {
		batch = append(batch, table.Row(i))
		if len(batch) >= s.s3Params.BatchSize {
			flush()
		}
	}
	flush()
}

func (s *writeS3) objectName(now time.Time) string {
	year := fmt.Sprintf("%04d", now.Year())
	month := fmt.Sprintf("%02d", now.Month())
	day := fmt.Sprintf("%02d", now.Day())
	hour := fmt.Sprintf("%02d", now.Hour())
	seq := fmt.Sprintf("%08d", s.sequenceNumber)
	return s.s3Params.Account + "/year=" + year + "/month=" + month + "/day=" + day + "/hour=" + hour +
		"/stream-id=" + s.streamID + "/" + seq
}

func (s *writeS3) GenerateStoreHeader(rows []map[string]interface{}, startTime time.Time, endTime time.Time) map[string]interface{} {
	augmentedObject := make(map[string]interface{})
	// copy user defined keys from config to object header
	for key, value := range s.s3Params.ObjectHeaderParameters {
		augmentedObject[key] = value
	}
	augmentedObject["version"] = s3StoreVersion
	augmentedObject["capture_start_time"] = startTime.Format(time.RFC3339)
	augmentedObject["capture_end_time"] = endTime.Format(time.RFC3339)
	augmentedObject["number_of_feature_rows"] = len(rows)
	augmentedObject["feature_rows"] = rows
	augmentedObject["state"] = "ok"

	return augmentedObject
}

// NewWriteS3 create a new writer to S3
func NewWriteS3(opMetrics *operational.Metrics, params config.StageParam) (Writer, error) {
	configParams := api.WriteS3{}
	if params.Write != nil && params.Write.S3 != nil {
		configParams = *params.Write.S3
	}
	log.Debugf("NewWriteS3, config = %v", configParams)
	if configParams.BatchSize == 0 {
		configParams.BatchSize = defaultS3Batch
	}
	s3Client, err := connectS3(configParams)
	if err != nil {
		return nil, err
	}
	clk := clock.New()
	return &writeS3{
		s3Params:       configParams,
		s3Writer:       &realS3Writer{client: s3Client},
		clock:          clk,
		streamID:       clk.Now().Format(time.RFC3339),
		recordsWritten: opMetrics.CreateRecordsWrittenCounter(params.Name),
	}, nil
}

func connectS3(cfg api.WriteS3) (*minio.Client, error) {
	// Initialize s3 client object.
	s3Client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("error when creating S3 client: %w", err)
	}

	found, err := s3Client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		log.Errorf("error accessing S3 bucket: %v", err)
	} else if found {
		log.Infof("bucket %s found", cfg.Bucket)
	}
	return s3Client, nil
}
