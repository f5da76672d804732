// Copyright 2021 Tetrate
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package os

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShutdownSignals(t *testing.T) {
	require.ElementsMatch(t, []os.Signal{syscall.SIGINT, syscall.SIGTERM}, shutdownSignals)
}

// withRelevantSignal uses SIGUSR1 as the only shutdown signal and stubs out terminate.
func withRelevantSignal(t *testing.T) (syscall.Signal, chan struct{}) {
	previousSignals, previousTerminate := shutdownSignals, terminate
	terminateCh := make(chan struct{})
	shutdownSignals = []os.Signal{syscall.SIGUSR1}
	terminate = func() { close(terminateCh) }
	t.Cleanup(func() {
		shutdownSignals, terminate = previousSignals, previousTerminate
	})
	return syscall.SIGUSR1, terminateCh
}

func requireNotClosed(t *testing.T, ch <-chan struct{}) {
	select {
	case <-ch:
		t.Fatal("channel closed unexpectedly")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSetupSignalHandler_IrrelevantSignal(t *testing.T) {
	withRelevantSignal(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// keep SIGUSR2 from terminating the test binary
	ignore := make(chan os.Signal, 1)
	signal.Notify(ignore, syscall.SIGUSR2)
	defer signal.Stop(ignore)

	stopCh := SetupSignalHandler(ctx)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR2))

	select {
	case sig := <-stopCh:
		t.Fatalf("unexpected signal %v", sig)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSetupSignalHandler_FirstSignal(t *testing.T) {
	relevant, terminateCh := withRelevantSignal(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := SetupSignalHandler(ctx)
	require.NoError(t, syscall.Kill(syscall.Getpid(), relevant))

	require.Equal(t, relevant, <-stopCh)
	_, open := <-stopCh
	require.False(t, open)
	requireNotClosed(t, terminateCh)
}

func TestSetupSignalHandler_SecondSignalTerminates(t *testing.T) {
	relevant, terminateCh := withRelevantSignal(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := SetupSignalHandler(ctx)
	require.NoError(t, syscall.Kill(syscall.Getpid(), relevant))
	require.Equal(t, relevant, <-stopCh)

	require.NoError(t, syscall.Kill(syscall.Getpid(), relevant))
	select {
	case <-terminateCh:
	case <-time.After(5 * time.Second):
		t.Fatal("expected the program to be terminated")
	}
}

func TestSetupSignalHandler_ContextDoneBeforeSecondSignal(t *testing.T) {
	relevant, terminateCh := withRelevantSignal(t)
	ctx, cancel := context.WithCancel(context.Background())

	stopCh := SetupSignalHandler(ctx)
	require.NoError(t, syscall.Kill(syscall.Getpid(), relevant))
	require.Equal(t, relevant, <-stopCh)

	// keep the second SIGUSR1 from terminating the test binary once the handler unregisters
	ignore := make(chan os.Signal, 1)
	signal.Notify(ignore, relevant)
	defer signal.Stop(ignore)

	cancel()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, syscall.Kill(syscall.Getpid(), relevant))
	requireNotClosed(t, terminateCh)
}
