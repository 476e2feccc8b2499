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
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/netfault/logfeatures-pipeline/pkg/api"
	"github.com/netfault/logfeatures-pipeline/pkg/config"
	"github.com/netfault/logfeatures-pipeline/pkg/model"
	"github.com/netfault/logfeatures-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const (
	defaultReadTimeoutSeconds  = int64(10)
	defaultWriteTimeoutSeconds = int64(10)
)

type kafkaWriteMessage interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type writeKafka struct {
	kafkaParams    api.WriteKafka
	kafkaWriter    kafkaWriteMessage
	recordsWritten prometheus.Counter
}

// Write sends each feature row as a JSON message to the kafka topic
func (r *writeKafka) Write(table *model.FeatureTable) {
	log.Debugf("entering writeKafka Write, #rows = %d", len(table.Rows))
	msgs := make([]kafkago.Message, 0, len(table.Rows))
	for i := range table.Rows {
		entryByteArray, _ := json.Marshal(table.Row(i))
		msgs = append(msgs, kafkago.Message{Value: entryByteArray})
	}
	err := r.kafkaWriter.WriteMessages(context.Background(), msgs...)
	if err != nil {
		log.Errorf("kafka error: %v", err)
		return
	}
	r.recordsWritten.Add(float64(len(msgs)))
}

// NewWriteKafka create a new writer to kafka
func NewWriteKafka(opMetrics *operational.Metrics, params config.StageParam) (Writer, error) {
	log.Debugf("entering NewWriteKafka")
	if params.Write == nil || params.Write.Kafka == nil {
		return nil, fmt.Errorf("write kafka: parameters not specified")
	}
	kafkaParams := *params.Write.Kafka

	var balancer kafkago.Balancer
	switch kafkaParams.Balancer {
	case api.KafkaWriteBalancerName("RoundRobin"):
		balancer = &kafkago.RoundRobin{}
	case api.KafkaWriteBalancerName("LeastBytes"):
		balancer = &kafkago.LeastBytes{}
	case api.KafkaWriteBalancerName("Hash"):
		balancer = &kafkago.Hash{}
	case api.KafkaWriteBalancerName("Crc32"):
		balancer = &kafkago.CRC32Balancer{}
	case api.KafkaWriteBalancerName("Murmur2"):
		balancer = &kafkago.Murmur2Balancer{}
	default:
		balancer = nil
	}

	readTimeoutSecs := defaultReadTimeoutSeconds
	if kafkaParams.ReadTimeout != 0 {
		readTimeoutSecs = kafkaParams.ReadTimeout
	}

	writeTimeoutSecs := defaultWriteTimeoutSeconds
	if kafkaParams.WriteTimeout != 0 {
		writeTimeoutSecs = kafkaParams.WriteTimeout
	}

	// connect to the kafka server
	kafkaWriter := kafkago.Writer{
		Addr:         kafkago.TCP(kafkaParams.Address),
		Topic:        kafkaParams.Topic,
		Balancer:     balancer,
		ReadTimeout:  time.Duration(readTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(writeTimeoutSecs) * time.Second,
		BatchSize:    kafkaParams.BatchSize,
		BatchBytes:   kafkaParams.BatchBytes,
	}

	return &writeKafka{
		kafkaParams:    kafkaParams,
		kafkaWriter:    &kafkaWriter,
		recordsWritten: opMetrics.CreateRecordsWrittenCounter(params.Name),
	}, nil
}
