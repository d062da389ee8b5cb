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
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/antst/mzahu/internal/config"
	"github.com/antst/mzahu/internal/estimator"
	"github.com/antst/mzahu/internal/logger"
	"github.com/antst/mzahu/internal/safe_mqtt"
)

const (
	timerDuration   = 50 * time.Millisecond
	inputChanBuffer = 8
	enabledKey      = "enabled"
)

// Control topics that tune the estimator parameters, relative to the control topic.
var paramFields = map[string]func(*estimator.Params) *float64{
	"load_adjustment":  func(p *estimator.Params) *float64 { return &p.LoadAdjustment },
	"fan_adjustment":   func(p *estimator.Params) *float64 { return &p.FanAdjustment },
	"fan_rated_power":  func(p *estimator.Params) *float64 { return &p.FanRatedPower },
	"fan_efficiency":   func(p *estimator.Params) *float64 { return &p.FanEfficiency },
	"pump_rated_power": func(p *estimator.Params) *float64 { return &p.PumpRatedPower },
	"pump_efficiency":  func(p *estimator.Params) *float64 { return &p.PumpEfficiency },
}

// EstimatorController evaluates the AHU curves whenever a measured input
// changes and publishes the result.
type EstimatorController struct {
	cfg          *config.Config
	store        StateStore
	mqtt         safe_mqtt.MqttClient
	log          *zap.SugaredLogger
	publisher    *EstimatePublisher
	staticSensor *MeasurementController
	tempSensor   *MeasurementController
	inputChan    chan *MeasurementController
	forceChan    chan bool
	limiter      *rate.Limiter
	topics       []string

	mu        sync.RWMutex
	params    estimator.Params
	enabled   bool
	latest    estimator.Estimate
	hasLatest bool
}

func NewEstimatorController(cfg *config.Config, client safe_mqtt.MqttClient, store StateStore) *EstimatorController {
	c := &EstimatorController{
		cfg:       cfg,
		store:     store,
		mqtt:      client,
		log:       logger.Named("estimator"),
		inputChan: make(chan *MeasurementController, inputChanBuffer),
		forceChan: make(chan bool, 2),
		limiter:   rate.NewLimiter(rate.Every(cfg.Publish.MinInterval), 1),
		params:    paramsFromConfig(cfg),
	}

	c.restoreParams()
	c.publisher = NewEstimatePublisher(client, cfg.MQTTConfig.OutputTopic, *cfg.Publish.QoS, *cfg.Publish.Retain)
	c.setupMQTTSubscriptions()

	controlTopic := cfg.MQTTConfig.ControlTopic
	c.staticSensor = NewMeasurementController(
		StaticPressure, cfg.Air.StaticPressure, client, controlTopic, store, c.inputChan,
	)
	c.tempSensor = NewMeasurementController(
		SupplyAirTemp, cfg.Water.SupplyAirTemperature, client, controlTopic, store, c.inputChan,
	)
	c.setEnabled(c.readValueWithDefault(enabledKey, "true"))
	return c
}

func paramsFromConfig(cfg *config.Config) estimator.Params {
	return estimator.Params{
		LoadAdjustment: *cfg.Air.LoadAdjustment,
		FanAdjustment:  *cfg.Air.FanAdjustment,
		FanRatedPower:  *cfg.Air.Fan.RatedPower,
		FanEfficiency:  *cfg.Air.Fan.Efficiency,
		PumpRatedPower: *cfg.Water.Pump.RatedPower,
		PumpEfficiency: *cfg.Water.Pump.Efficiency,
	}
}

// Values set over MQTT outlive a restart and win over the config file.
func (c *EstimatorController) restoreParams() {
	for name, field := range paramFields {
		s, err := c.readValue(name)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.log.Warnf("Ignoring stored %s `%v`: %v", name, s, err)
			continue
		}
		*field(&c.params) = v
		c.log.Debugf("Restored %s = %v", name, v)
	}
}

func (c *EstimatorController) setupMQTTSubscriptions() {
	controlTopic := c.cfg.MQTTConfig.ControlTopic
	c.subscribe(controlTopic + "/log_level")
	c.subscribe(controlTopic + "/enable")
	for name := range paramFields {
		c.subscribe(controlTopic + "/" + name)
	}
}

func (c *EstimatorController) subscribe(topic string) {
	c.mqtt.SafeSubscribe(topic, mqttQoS, c.controlUpdateHandler)
	c.topics = append(c.topics, topic)
}

// unsubscribe drops every subscription made by c and its sensors.
func (c *EstimatorController) unsubscribe() {
	topics := append([]string{}, c.topics...)
	topics = append(topics, c.staticSensor.topics()...)
	topics = append(topics, c.tempSensor.topics()...)
	if err := safe_mqtt.WaitToken(c.mqtt.SafeUnsubscribe(topics...), publishTimeout); err != nil {
		c.log.Errorf("Unsubscribe failed: %v", err)
	}
}

func (c *EstimatorController) Run(ctx context.Context) {
	go c.staticSensor.childProcessor(ctx)
	go c.tempSensor.childProcessor(ctx)

	timer := time.NewTimer(timerDuration)
	ticker := time.NewTicker(c.cfg.Publish.Interval)
	defer timer.Stop()
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			c.unsubscribe()
			return
		case <-c.forceChan:
			pending = true
			resetTimer(timer, timerDuration)
		case <-c.inputChan:
			pending = true
			resetTimer(timer, timerDuration)
		case <-timer.C:
			if !pending {
				continue
			}
			if !c.limiter.Allow() {
				resetTimer(timer, c.cfg.Publish.MinInterval)
				continue
			}
			pending = false
			c.update(ctx)
		case <-ticker.C:
			c.republish()
		}
	}
}

func resetTimer(timer *time.Timer, d time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(d)
}

func (c *EstimatorController) inputs() (estimator.Inputs, bool) {
	static, okStatic := c.staticSensor.Value()
	temp, okTemp := c.tempSensor.Value()
	return estimator.Inputs{StaticPressure: static, SupplyAirTemp: temp}, okStatic && okTemp
}

func (c *EstimatorController) update(ctx context.Context) {
	if !c.isEnabled() {
		c.log.Debug("Disabled, skipping update")
		return
	}

	in, ok := c.inputs()
	if !ok {
		c.log.Debug("Waiting for both static pressure and supply air temperature")
		return
	}

	p := c.Params()
	if w := estimator.Warnings(in, p); len(w) > 0 {
		c.log.Warnf("Inputs outside the fitted range: %s", strings.Join(w, "; "))
	}

	e := estimator.Evaluate(in, p)
	c.mu.Lock()
	c.latest, c.hasLatest = e, true
	c.mu.Unlock()

	c.log.Infof(
		"Static=%.3f SAT=%.2f: damper=%.3f fan=%.3f (%.2f kW) valve=%.3f pump=%.3f (%.2f kW)",
		in.StaticPressure, in.SupplyAirTemp, e.DamperPosition, e.FanSpeed, e.FanPower,
		e.ValvePosition, e.PumpSpeed, e.PumpPower,
	)

	if err := c.store.InsertEstimate(ctx, e); err != nil {
		c.log.Error(err)
	}
	c.publisher.Publish(e)
}

func (c *EstimatorController) republish() {
	if !c.isEnabled() {
		return
	}
	if e, ok := c.Latest(); ok {
		c.publisher.Publish(e)
	}
}

// Latest returns the last estimate and false when there is none yet.
func (c *EstimatorController) Latest() (estimator.Estimate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest, c.hasLatest
}

func (c *EstimatorController) Params() estimator.Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params
}

func (c *EstimatorController) isEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

func (c *EstimatorController) controlUpdateHandler(_ mqtt.Client, message mqtt.Message) {
	topic := lastTopicSegment(message.Topic())
	payload := strings.TrimSpace(string(message.Payload()))
	c.log.Infof("Got MQTT control request: %v : %v", topic, payload)

	switch topic {
	case "log_level":
		if err := logger.SetLogLevelString(payload); err != nil {
			c.log.Error(err)
		} else {
			c.log.Infof("Updated loglevel to `%v`", logger.Level())
		}
	case "enable":
		c.setEnabled(payload)
	default:
		field, ok := paramFields[topic]
		if !ok {
			c.log.Errorf("Unknown control topic: %s", topic)
			return
		}
		v, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			c.log.Error(err)
			return
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			c.log.Errorf("Refusing non-finite %s: %v", topic, payload)
			return
		}
		c.mu.Lock()
		*field(&c.params) = v
		c.mu.Unlock()
		if err := c.writeValue(topic, strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
			c.log.Error(err)
		}
		c.log.Infof("Updated %s to %v", topic, v)
		notify(c.forceChan, true)
	}
}

func (c *EstimatorController) setEnabled(val string) {
	var enabled bool
	switch strings.ToLower(val) {
	case "true", "on":
		enabled = true
	case "false", "off":
		enabled = false
	default:
		c.log.Warnf("Invalid value for enable: %v", val)
		return
	}

	state := "OFF"
	if enabled {
		state = "ON"
	}
	c.mqtt.SafePublish(c.cfg.MQTTConfig.ControlTopic+"/active", mqttQoS, true, state)

	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()

	if err := c.writeValue(enabledKey, strconv.FormatBool(enabled)); err != nil {
		c.log.Error(err)
	}
	notify(c.forceChan, true)
}

func (c *EstimatorController) writeValue(name, value string) error {
	return c.store.UpsertControllerValue(context.Background(), name, value)
}

func (c *EstimatorController) readValue(name string) (string, error) {
	return c.store.GetControllerValue(context.Background(), name)
}

func (c *EstimatorController) readValueWithDefault(name string, defValue string) string {
	val, err := c.readValue(name)
	if err != nil {
		val = defValue
	}
	return val
}
