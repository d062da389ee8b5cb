/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of MZAHU project.
 *
 * MZAHU is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package safe_mqtt

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testToken struct {
	done chan struct{}
	err  error
}

func (t *testToken) Wait() bool {
	<-t.done
	return true
}

func (t *testToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *testToken) Done() <-chan struct{} { return t.done }
func (t *testToken) Error() error          { return t.err }

func TestWaitToken(t *testing.T) {
	done := make(chan struct{})
	close(done)

	if err := WaitToken(&testToken{done: done}, time.Second); err != nil {
		t.Errorf("completed token: %v", err)
	}

	boom := errors.New("boom")
	if err := WaitToken(&testToken{done: done, err: boom}, time.Second); !errors.Is(err, boom) {
		t.Errorf("failed token: got %v", err)
	}

	if err := WaitToken(&testToken{done: make(chan struct{})}, 10*time.Millisecond); err == nil {
		t.Error("pending token should time out")
	}
}

// No broker listens on the discard port, so connect gives up with the context.
func TestInitMQTTClientCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	c, err := InitMQTTClient(ctx, Options{URL: "tcp://127.0.0.1:9"})
	if err == nil {
		c.Close()
		t.Fatal("expected connect to fail")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}
