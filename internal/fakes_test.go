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

package internal

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/antst/mzahu/internal/db"
	"github.com/antst/mzahu/internal/estimator"
)

type doneToken struct{}

var closed = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Done() <-chan struct{}          { return closed }
func (doneToken) Error() error                   { return nil }

type testMessage struct {
	topic   string
	payload []byte
}

func (m *testMessage) Duplicate() bool   { return false }
func (m *testMessage) Qos() byte         { return 0 }
func (m *testMessage) Retained() bool    { return false }
func (m *testMessage) Topic() string     { return m.topic }
func (m *testMessage) MessageID() uint16 { return 0 }
func (m *testMessage) Payload() []byte   { return m.payload }
func (m *testMessage) Ack()              {}

func msg(topic, payload string) mqtt.Message {
	return &testMessage{topic: topic, payload: []byte(payload)}
}

type publication struct {
	topic    string
	retained bool
	payload  string
}

type testClient struct {
	mu   sync.Mutex
	subs map[string]mqtt.MessageHandler
	pubs []publication
}

func newTestClient() *testClient {
	return &testClient{subs: make(map[string]mqtt.MessageHandler)}
}

func (c *testClient) SafePublish(topic string, _ byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	var s string
	switch p := payload.(type) {
	case []byte:
		s = string(p)
	default:
		s = fmt.Sprint(p)
	}
	c.pubs = append(c.pubs, publication{topic: topic, retained: retained, payload: s})
	return doneToken{}
}

func (c *testClient) SafeSubscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[topic] = callback
	return doneToken{}
}

func (c *testClient) SafeUnsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		delete(c.subs, t)
	}
	return doneToken{}
}

func (c *testClient) Close() {}

// deliver hands payload to the handler subscribed on topic.
func (c *testClient) deliver(t *testing.T, topic, payload string) {
	t.Helper()
	c.mu.Lock()
	h, ok := c.subs[topic]
	c.mu.Unlock()
	if !ok {
		t.Fatalf("nothing subscribed to %s", topic)
	}
	h(nil, msg(topic, payload))
}

// last returns the newest payload published on topic.
func (c *testClient) last(topic string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.pubs) - 1; i >= 0; i-- {
		if c.pubs[i].topic == topic {
			return c.pubs[i].payload, true
		}
	}
	return "", false
}

func (c *testClient) subscribed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *testClient) count(topic string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.pubs {
		if p.topic == topic {
			n++
		}
	}
	return n
}

type testStore struct {
	mu          sync.Mutex
	sensors     map[string]float64
	controllers map[string]string
	estimates   []estimator.Estimate
}

func newTestStore() *testStore {
	return &testStore{sensors: make(map[string]float64), controllers: make(map[string]string)}
}

func (s *testStore) UpsertSensorValue(_ context.Context, name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensors[name] = value
	return nil
}

func (s *testStore) GetSensorValue(_ context.Context, name string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sensors[name]
	if !ok {
		return 0, db.ErrNotFound
	}
	return v, nil
}

func (s *testStore) UpsertControllerValue(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controllers[name] = value
	return nil
}

func (s *testStore) GetControllerValue(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.controllers[name]
	if !ok {
		return "", db.ErrNotFound
	}
	return v, nil
}

func (s *testStore) InsertEstimate(_ context.Context, e estimator.Estimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estimates = append(s.estimates, e)
	return nil
}

func (s *testStore) estimateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.estimates)
}

var _ StateStore = (*db.Store)(nil)

// eventually polls cond until it holds or a second passes.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
