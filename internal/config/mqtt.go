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

package config

import "time"

const (
	defaultMQTTURL         = "tcp://127.0.0.1:1883"
	defaultControlTopic    = "mzahu/control"
	defaultOutputTopic     = "mzahu/estimate"
	defaultPublishInterval = 30 * time.Second
	defaultMinInterval     = time.Second
	defaultQoS             = 1
)

type MQTTConfig struct {
	URL          string `yaml:"url"`
	ControlTopic string `yaml:"control_topic"`
	OutputTopic  string `yaml:"output_topic"`
	Username     string `yaml:"username,omitempty"`
	Password     string `yaml:"password,omitempty"`
}

func NewMQTTConfig() *MQTTConfig {
	cfg := &MQTTConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *MQTTConfig) FillDefaults() {
	if c.URL == "" {
		c.URL = defaultMQTTURL
	}
	if c.ControlTopic == "" {
		c.ControlTopic = defaultControlTopic
	}
	if c.OutputTopic == "" {
		c.OutputTopic = defaultOutputTopic
	}
}

// HTTPConfig: empty Listen disables the HTTP API
type HTTPConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// PublishConfig controls how estimates go out to MQTT.
type PublishConfig struct {
	// Interval between unconditional republishes of the last estimate.
	Interval time.Duration `yaml:"interval"`
	// MinInterval is the shortest gap between two fresh estimates.
	MinInterval time.Duration `yaml:"min_interval"`
	QoS         *byte         `yaml:"qos"`
	Retain      *bool         `yaml:"retain"`
}

func NewPublishConfig() *PublishConfig {
	cfg := &PublishConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *PublishConfig) FillDefaults() {
	if c.Interval <= 0 {
		c.Interval = defaultPublishInterval
	}
	if c.MinInterval <= 0 {
		c.MinInterval = defaultMinInterval
	}
	if c.QoS == nil {
		c.QoS = GetPTR(byte(defaultQoS))
	}
	if c.Retain == nil {
		c.Retain = GetPTR(true)
	}
}
