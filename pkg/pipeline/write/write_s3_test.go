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
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/stretchr/testify/require"
)

type fakeS3Writer struct {
	buckets     []string
	objectNames []string
	objects     []map[string]interface{}
}

func (f *fakeS3Writer) putObject(bucket string, objectName string, object map[string]interface{}) error {
	f.buckets = append(f.buckets, bucket)
	f.objectNames = append(f.objectNames, objectName)
	f.objects = append(f.objects, object)
	return nil
}

func newTestWriteS3(batchSize int) (*writeS3, *fakeS3Writer, *clock.Mock) {
	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC))
	fake := &fakeS3Writer{}
	return &writeS3{
		s3Params: api.WriteS3{
			Account:   "tenant1",
			Bucket:    "features",
			BatchSize: batchSize,
			ObjectHeaderParameters: map[string]interface{}{
				"cluster": "east",
			},
		},
		s3Writer:       fake,
		clock:          mockClock,
		streamID:       "stream0",
		recordsWritten: testMetrics().CreateRecordsWrittenCounter("s3"),
	}, fake, mockClock
}

func TestWriteS3(t *testing.T) {
	writer, fake, _ := newTestWriteS3(10)

	writer.Write(featureTable())

	require.Len(t, fake.objects, 1)
	require.Equal(t, []string{"features"}, fake.buckets)
	require.Equal(t, "tenant1/year=2023/month=06/day=01/hour=12/stream-id=stream0/00000000",
		fake.objectNames[0])

	object := fake.objects[0]
	require.Equal(t, "1.0", object["version"])
	require.Equal(t, "east", object["cluster"])
	require.Equal(t, "ok", object["state"])
	require.Equal(t, 2, object["number_of_feature_rows"])
	rows := object["feature_rows"].([]map[string]interface{})
	require.Len(t, rows, 2)
	require.Equal(t, int64(1), rows[0]["id"])
}

func TestWriteS3_Batching(t *testing.T) {
	writer, fake, _ := newTestWriteS3(2)

	table := &model.FeatureTable{
		Columns: []string{"ev_sev0_q1"},
		IDs:     []int64{1, 2, 3, 4, 5},
		Rows:    [][]int{{1}, {2}, {3}, {4}, {5}},
	}
	writer.Write(table)

	// 5 rows in batches of 2: two full objects plus the remainder
	require.Len(t, fake.objects, 3)
	require.Equal(t, 2, fake.objects[0]["number_of_feature_rows"])
	require.Equal(t, 2, fake.objects[1]["number_of_feature_rows"])
	require.Equal(t, 1, fake.objects[2]["number_of_feature_rows"])
	// sequence number advances per object
	require.Contains(t, fake.objectNames[0], "/00000000")
	require.Contains(t, fake.objectNames[1], "/00000001")
	require.Contains(t, fake.objectNames[2], "/00000002")
	require.Equal(t, int64(3), writer.sequenceNumber)
}

func TestWriteS3_HeaderTimes(t *testing.T) {
	writer, fake, mockClock := newTestWriteS3(10)
	start := mockClock.Now()

	writer.Write(featureTable())

	object := fake.objects[0]
	require.Equal(t, start.Format(time.RFC3339), object["capture_start_time"])
	require.Equal(t, start.Format(time.RFC3339), object["capture_end_time"])
}
