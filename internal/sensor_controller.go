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
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/antst/mzahu/internal/config"
	"github.com/antst/mzahu/internal/logger"
	"github.com/antst/mzahu/internal/safe_mqtt"
)

const sensorControlSuffix = "/sensors/"

type SensorController struct {
	name        string
	lock        sync.RWMutex
	cfg         *config.SensorConfig
	store       StateStore
	log         *zap.SugaredLogger
	value       float64
	timestamp   time.Time
	controlChan chan<- bool
	topics      []string
}

func NewSensorController(
	name string, cfg *config.SensorConfig, client safe_mqtt.MqttClient, controlTopic string, store StateStore,
	controlChan chan<- bool,
) *SensorController {
	s := &SensorController{
		name:        name,
		cfg:         cfg,
		store:       store,
		log:         logger.Named(name),
		timestamp:   zeroTS,
		controlChan: controlChan,
	}

	if s.readState() {
		s.log.Debugf("Loaded previous state from DB: %v", s.value)
		s.timestamp = time.Now()
	}

	client.SafeSubscribe(cfg.Topic, mqttQoS, s.ValueUpdateHandler)
	s.topics = append(s.topics, cfg.Topic)
	group := controlTopic + sensorControlSuffix + s.name + "/"
	for _, t := range []string{"offset", "weight", "scale"} {
		client.SafeSubscribe(group+t, mqttQoS, s.controlUpdateHandler)
		s.topics = append(s.topics, group+t)
	}

	return s
}

func (s *SensorController) ValueUpdateHandler(_ mqtt.Client, message mqtt.Message) {
	raw, err := extractF64PlainOrJson(message, s.cfg.JSONEntry)
	if err != nil {
		s.log.Error(err)
		return
	}

	s.lock.Lock()
	oldValue, oldTS := s.value, s.timestamp
	s.value = raw*(*s.cfg.Scale) + (*s.cfg.Offset)
	s.timestamp = time.Now()
	value := s.value
	s.lock.Unlock()

	if err := s.writeState(value); err != nil {
		s.log.Error(err)
	}
	s.log.Debugf("Got value: %f", value)
	if oldValue != value || !oldTS.After(zeroTS) {
		notify(s.controlChan, true)
	}
}

// get returns the calibrated value, its weight and when it was received.
func (s *SensorController) get() (float64, float64, time.Time) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.value, *s.cfg.Weight, s.timestamp
}

func (s *SensorController) writeState(value float64) error {
	return s.store.UpsertSensorValue(context.Background(), s.name, value)
}

func (s *SensorController) readState() bool {
	val, err := s.store.GetSensorValue(context.Background(), s.name)
	if err != nil {
		return false
	}
	s.value = val
	return true
}

// Offset and scale apply from the next reading on, weight immediately.
func (s *SensorController) controlUpdateHandler(_ mqtt.Client, message mqtt.Message) {
	topic := lastTopicSegment(message.Topic())
	s.log.Infof("Got MQTT control request: %v : %v", topic, string(message.Payload()))

	value, err := strconv.ParseFloat(strings.TrimSpace(string(message.Payload())), 64)
	if err != nil {
		s.log.Error(err)
		return
	}

	s.lock.Lock()
	switch topic {
	case "weight":
		s.cfg.Weight = &value
	case "offset":
		s.cfg.Offset = &value
	case "scale":
		s.cfg.Scale = &value
	default:
		s.lock.Unlock()
		s.log.Errorf("Unknown control topic: %s", topic)
		return
	}
	s.lock.Unlock()

	s.log.Infof("Updated %s to %v", topic, value)
	if topic == "weight" {
		notify(s.controlChan, true)
	}
}
