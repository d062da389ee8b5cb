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

package estimator

import (
	"math"
	"time"

	"go.uber.org/multierr"

	"github.com/antst/mzahu/internal/ahu_model"
)

// Inputs are the measured quantities the curves are driven by.
type Inputs struct {
	StaticPressure float64 `json:"static_pressure"`
	SupplyAirTemp  float64 `json:"supply_air_temp"`
}

// Params are the caller chosen biases and drive ratings.
type Params struct {
	LoadAdjustment float64 `json:"load_adjustment"`
	FanAdjustment  float64 `json:"fan_adjustment"`
	FanRatedPower  float64 `json:"fan_rated_power"`
	FanEfficiency  float64 `json:"fan_efficiency"`
	PumpRatedPower float64 `json:"pump_rated_power"`
	PumpEfficiency float64 `json:"pump_efficiency"`
}

func DefaultParams() Params {
	return Params{
		LoadAdjustment: ahu_model.DefaultLoadAdjustment,
		FanAdjustment:  ahu_model.DefaultFanAdjustment,
		FanRatedPower:  ahu_model.DefaultFanRatedPower,
		FanEfficiency:  ahu_model.DefaultEfficiency,
		PumpRatedPower: ahu_model.DefaultPumpRatedPower,
		PumpEfficiency: ahu_model.DefaultEfficiency,
	}
}

type Estimate struct {
	Timestamp      time.Time `json:"timestamp"`
	StaticPressure float64   `json:"static_pressure"`
	SupplyAirTemp  float64   `json:"supply_air_temp"`
	DamperPosition float64   `json:"damper_position"`
	FanSpeed       float64   `json:"fan_speed"`
	FanPower       float64   `json:"fan_power"`
	ValvePosition  float64   `json:"valve_position"`
	PumpSpeed      float64   `json:"pump_speed"`
	PumpPower      float64   `json:"pump_power"`
}

// Evaluate runs every curve for in. Fan and pump power are taken at the
// speeds estimated from the same inputs.
func Evaluate(in Inputs, p Params) Estimate {
	fanSpeed := ahu_model.FanSpeed(in.StaticPressure, p.FanAdjustment)
	pumpSpeed := ahu_model.PumpSpeed(in.SupplyAirTemp, in.StaticPressure)

	return Estimate{
		Timestamp:      time.Now(),
		StaticPressure: in.StaticPressure,
		SupplyAirTemp:  in.SupplyAirTemp,
		DamperPosition: ahu_model.DamperPosition(in.StaticPressure, p.LoadAdjustment),
		FanSpeed:       fanSpeed,
		FanPower:       ahu_model.FanPower(fanSpeed, p.FanRatedPower, p.FanEfficiency),
		ValvePosition:  ahu_model.ValvePosition(in.SupplyAirTemp, in.StaticPressure),
		PumpSpeed:      pumpSpeed,
		PumpPower:      ahu_model.PumpPower(pumpSpeed, p.PumpRatedPower, p.PumpEfficiency),
	}
}

// Outputs returns the estimated values keyed by their publish names.
func (e Estimate) Outputs() map[string]float64 {
	return map[string]float64{
		"damper_position": e.DamperPosition,
		"fan_speed":       e.FanSpeed,
		"fan_power":       e.FanPower,
		"valve_position":  e.ValvePosition,
		"pump_speed":      e.PumpSpeed,
		"pump_power":      e.PumpPower,
	}
}

// Finite reports whether all outputs are finite. JSON can't carry NaN or Inf.
func (e Estimate) Finite() bool {
	for _, v := range e.Outputs() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Validate collects every input outside the fitted ranges.
func (in Inputs) Validate() error {
	return multierr.Combine(
		ahu_model.CheckStaticPressure(in.StaticPressure),
		ahu_model.CheckSupplyAirTemp(in.SupplyAirTemp),
	)
}

func (p Params) Validate() error {
	return multierr.Combine(
		ahu_model.CheckDrive(p.FanRatedPower, p.FanEfficiency),
		ahu_model.CheckDrive(p.PumpRatedPower, p.PumpEfficiency),
	)
}

// Warnings flattens the validation errors of in and p to strings.
func Warnings(in Inputs, p Params) []string {
	errs := multierr.Errors(multierr.Append(in.Validate(), p.Validate()))
	if len(errs) == 0 {
		return nil
	}
	ret := make([]string, len(errs))
	for i, err := range errs {
		ret[i] = err.Error()
	}
	return ret
}
