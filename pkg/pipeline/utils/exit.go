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

package utils

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
)

var (
	exitChannel chan struct{}
	exitOnce    sync.Once
	chanMutex   sync.Mutex
)

// ExitChannel returns the shared channel closed when the process is
// asked to terminate. Long-running stages select on it.
func ExitChannel() <-chan struct{} {
	chanMutex.Lock()
	defer chanMutex.Unlock()
	if exitChannel == nil {
		exitChannel = make(chan struct{})
	}
	return exitChannel
}

// InitExitChannel re-arms the exit channel; used by tests that simulate
// process termination.
func InitExitChannel() {
	chanMutex.Lock()
	defer chanMutex.Unlock()
	exitChannel = make(chan struct{})
}

// CloseExitChannel asks all registered go routines to stop.
func CloseExitChannel() {
	chanMutex.Lock()
	defer chanMutex.Unlock()
	if exitChannel != nil {
		close(exitChannel)
		exitChannel = nil
	}
}

// SetupElegantExit closes the exit channel on SIGINT/SIGTERM so that go
// routines of the pipeline can exit cleanly.
func SetupElegantExit() {
	exitOnce.Do(func() {
		log.Debugf("entering SetupElegantExit")
		exitSigChan := make(chan os.Signal, 1)
		signal.Notify(exitSigChan, syscall.SIGINT, syscall.SIGTERM)
		_ = ExitChannel()
		go func() {
			sig := <-exitSigChan
			log.Debugf("received exit signal = %v", sig)
			CloseExitChannel()
		}()
	})
}
