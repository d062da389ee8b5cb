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
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/antst/mzahu/internal/config"
	"github.com/antst/mzahu/internal/logger"
	"github.com/antst/mzahu/internal/safe_mqtt"
)

// Quantity is a measured input of the estimator.
type Quantity string

const (
	StaticPressure Quantity = "static-pressure"
	SupplyAirTemp  Quantity = "supply-air-temperature"
)

// MeasurementController reduces the sensors of one quantity to a single value.
type MeasurementController struct {
	quantity         Quantity
	mu               sync.RWMutex
	cfg              *config.SensorGroupConfig
	log              *zap.SugaredLogger
	sensors          []*SensorController
	controlChan      chan<- *MeasurementController
	childChan        chan bool
	average          float64
	averageTimestamp time.Time
	averageFunc      averageFunc
}

func NewMeasurementController(
	q Quantity, cfg *config.SensorGroupConfig, client safe_mqtt.MqttClient, controlTopic string, store StateStore,
	controlChan chan<- *MeasurementController,
) *MeasurementController {
	m := &MeasurementController{
		quantity:         q,
		cfg:              cfg,
		log:              logger.Named(string(q)),
		controlChan:      controlChan,
		averageTimestamp: zeroTS,
		childChan:        make(chan bool, childChanBuffer),
	}
	m.LinkAverageFun()

	m.sensors = make([]*SensorController, len(cfg.Sensors))
	for i, sensor := range cfg.Sensors {
		sName := string(q) + "-"
		if sensor.Name == "" {
			sName += strconv.Itoa(i + 1)
		} else {
			sName += sensor.Name
		}
		m.sensors[i] = NewSensorController(sName, sensor, client, controlTopic, store, m.childChan)
	}

	m.updateAverage()
	return m
}

func (m *MeasurementController) LinkAverageFun() {
	if f, ok := averageFuncs[m.cfg.AverageType]; ok {
		m.averageFunc = f
		return
	}
	m.log.Errorf("Unknown average function type: %v", m.cfg.AverageType)
	m.log.Error("Reverting to the `mean`")
	m.cfg.AverageType = config.DefaultAverageType
	m.averageFunc = sensorsMean
}

// childProcessor recomputes the average on every sensor update until ctx is done.
func (m *MeasurementController) childProcessor(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.childChan:
			m.updateAverage()
		}
	}
}

func (m *MeasurementController) updateAverage() {
	v, t := m.averageFunc(m.sensors)
	if !t.After(zeroTS) {
		return
	}

	m.mu.Lock()
	changed := v != m.average || !m.averageTimestamp.After(zeroTS)
	m.averageTimestamp = t
	m.average = v
	m.mu.Unlock()

	if changed {
		m.log.Debugf("Average: %f", v)
		notify(m.controlChan, m)
	}
}

// topics lists what the sensors of m are subscribed to.
func (m *MeasurementController) topics() []string {
	var ret []string
	for _, s := range m.sensors {
		ret = append(ret, s.topics...)
	}
	return ret
}

// Value returns the current average and false when no sensor has reported yet.
func (m *MeasurementController) Value() (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.average, m.averageTimestamp.After(zeroTS)
}
