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

import "github.com/antst/mzahu/internal/ahu_model"

// DriveConfig: nameplate of a fan or pump motor
type DriveConfig struct {
	RatedPower *float64 `yaml:"rated_power"` // hp
	Efficiency *float64 `yaml:"efficiency"`
}

func (d *DriveConfig) fillDefaults(ratedPower float64) {
	if d.RatedPower == nil {
		d.RatedPower = GetPTR(ratedPower)
	}
	if d.Efficiency == nil {
		d.Efficiency = GetPTR(ahu_model.DefaultEfficiency)
	}
}

// AirSideConfig covers the damper and supply fan.
type AirSideConfig struct {
	StaticPressure *SensorGroupConfig `yaml:"static_pressure"`
	LoadAdjustment *float64           `yaml:"load_adjustment"`
	FanAdjustment  *float64           `yaml:"fan_adjustment"`
	Fan            *DriveConfig       `yaml:"fan"`
}

func NewAirSideConfig() *AirSideConfig {
	cfg := &AirSideConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *AirSideConfig) FillDefaults() {
	if c.StaticPressure == nil {
		c.StaticPressure = &SensorGroupConfig{}
	}
	c.StaticPressure.FillDefaults()
	if c.LoadAdjustment == nil {
		c.LoadAdjustment = GetPTR(ahu_model.DefaultLoadAdjustment)
	}
	if c.FanAdjustment == nil {
		c.FanAdjustment = GetPTR(ahu_model.DefaultFanAdjustment)
	}
	if c.Fan == nil {
		c.Fan = &DriveConfig{}
	}
	c.Fan.fillDefaults(ahu_model.DefaultFanRatedPower)
}

// WaterSideConfig covers the chilled-water valve and pump.
type WaterSideConfig struct {
	SupplyAirTemperature *SensorGroupConfig `yaml:"supply_air_temperature"`
	Pump                 *DriveConfig       `yaml:"pump"`
}

func NewWaterSideConfig() *WaterSideConfig {
	cfg := &WaterSideConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *WaterSideConfig) FillDefaults() {
	if c.SupplyAirTemperature == nil {
		c.SupplyAirTemperature = &SensorGroupConfig{}
	}
	c.SupplyAirTemperature.FillDefaults()
	if c.Pump == nil {
		c.Pump = &DriveConfig{}
	}
	c.Pump.fillDefaults(ahu_model.DefaultPumpRatedPower)
}
