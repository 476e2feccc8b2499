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

package test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Eventually retries the execution of testFunc until it stops failing, or until the
// timeout is reached. A run that exceeds the remaining time counts as a failure.
func Eventually(t *testing.T, timeout time.Duration, testFunc func(t require.TestingT)) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	var lastFailure string
	for time.Now().Before(deadline) {
		done := make(chan bool, 1)
		go func() {
			inner := recordingT{}
			testFunc(&inner)
			if len(inner.failures) > 0 {
				lastFailure = inner.failures[len(inner.failures)-1]
			}
			done <- !inner.failed
		}()
		select {
		case ok := <-done:
			if ok {
				return
			}
		case <-time.After(time.Until(deadline)):
			lastFailure = "test function timed out"
		}
	}
	t.Errorf("timeout (%s) waiting for the test to succeed. Last failure: %v", timeout, lastFailure)
}

// recordingT implements require.TestingT, storing the failures instead of
// aborting the test run so that the invocation can be retried.
type recordingT struct {
	failed   bool
	failures []string
}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.failed = true
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() {
	r.failed = true
}
