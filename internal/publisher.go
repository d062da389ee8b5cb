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
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/antst/mzahu/internal/estimator"
	"github.com/antst/mzahu/internal/logger"
	"github.com/antst/mzahu/internal/safe_mqtt"
)

// EstimatePublisher writes each estimated parameter to <topic>/<name> and a
// JSON summary to <topic>.
type EstimatePublisher struct {
	lock   sync.Mutex
	mqtt   safe_mqtt.MqttClient
	topic  string
	qos    byte
	retain bool
	log    *zap.SugaredLogger
}

func NewEstimatePublisher(client safe_mqtt.MqttClient, topic string, qos byte, retain bool) *EstimatePublisher {
	return &EstimatePublisher{
		mqtt:   client,
		topic:  topic,
		qos:    qos,
		retain: retain,
		log:    logger.Named("publisher"),
	}
}

func (p *EstimatePublisher) Publish(e estimator.Estimate) {
	p.lock.Lock()
	defer p.lock.Unlock()

	outputs := e.Outputs()
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p.publish(p.topic+"/"+name, fmt.Sprintf("%.4f", outputs[name]))
	}

	if !e.Finite() {
		p.log.Warnf("Estimate is not finite, JSON summary skipped: %+v", e)
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		p.log.Error(err)
		return
	}
	p.publish(p.topic, data)
}

func (p *EstimatePublisher) publish(topic string, payload interface{}) {
	token := p.mqtt.SafePublish(topic, p.qos, p.retain, payload)
	if err := safe_mqtt.WaitToken(token, publishTimeout); err != nil {
		p.log.Errorf("Publish to %s failed: %v", topic, err)
	}
}
