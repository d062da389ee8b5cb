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

import "github.com/antst/mzahu/internal/logger"

// SensorConfig: one MQTT sourced reading. Value is raw*scale + offset.
type SensorConfig struct {
	Name string `yaml:"name,omitempty"`
	// Topic carries either a plain number or a JSON object.
	Topic string `yaml:"topic"`
	// JSONEntry is a dotted path into the JSON payload, e.g. `ahu1.static`.
	JSONEntry *string  `yaml:"json_entry,omitempty"`
	Offset    *float64 `yaml:"offset"`
	Scale     *float64 `yaml:"scale"`
	Weight    *float64 `yaml:"weight"`
}

func NewSensorConfig() *SensorConfig {
	cfg := &SensorConfig{}
	cfg.FillDefaults()
	return cfg
}

func (s *SensorConfig) FillDefaults() {
	if s.Offset == nil {
		s.Offset = GetPTR(0.0)
	}
	if s.Scale == nil {
		s.Scale = GetPTR(1.0)
	}
	if s.Weight == nil {
		s.Weight = GetPTR(1.0)
	}
}

// SensorGroupConfig is a set of sensors measuring one quantity.
type SensorGroupConfig struct {
	AverageType string          `yaml:"average_type,omitempty"`
	Sensors     []*SensorConfig `yaml:"sensors"`
}

func NewSensorGroupConfig() *SensorGroupConfig {
	cfg := &SensorGroupConfig{}
	cfg.FillDefaults()
	return cfg
}

func (g *SensorGroupConfig) FillDefaults() {
	if g.AverageType == "" {
		g.AverageType = DefaultAverageType
	}
	// a bare `-` in the sensors list decodes to nil
	sensors := g.Sensors[:0]
	for _, s := range g.Sensors {
		if s == nil {
			logger.L().Warn("Skipping empty sensor entry")
			continue
		}
		s.FillDefaults()
		sensors = append(sensors, s)
	}
	g.Sensors = sensors
}
