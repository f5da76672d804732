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

package process

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
)

var (
	notifyChild = func(c chan<- os.Signal) { signal.Notify(c, unix.SIGCHLD) }
	stopNotify  = signal.Stop
)

// Wait blocks until the child has exited or ctx is done, whichever comes first. Unlike Join, the child is observed
// without a blocking wait, so a signal-driven wakeup can be abandoned on cancellation. It returns true when the child
// is no longer active.
//
// The SIGCHLD subscription lasts for this call only, and does not disturb other subscribers in the program.
func (p *Process) Wait(ctx context.Context) (bool, error) {
	if p.state != StateActive {
		return true, nil
	}

	// Subscribe before checking, or an exit between the check and the subscription would be missed.
	sigCh := make(chan os.Signal, 1)
	notifyChild(sigCh)
	defer stopNotify(sigCh)

	for {
		running, err := p.Running()
		if err != nil {
			return false, err
		}
		if !running {
			return true, nil
		}
		select {
		case <-sigCh:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// WaitFor is like Wait with a timeout. It returns false without an error if the child is still active after d.
func (p *Process) WaitFor(d time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	exited, err := p.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return false, nil
	}
	return exited, err
}
