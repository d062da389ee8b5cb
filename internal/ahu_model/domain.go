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

package ahu_model

import (
	"fmt"
	"math"
)

// Input ranges the curves were fitted on.
const (
	MinStaticPressure = 0.3
	MaxStaticPressure = 2.5
	MinSupplyAirTemp  = 55.0
	MaxSupplyAirTemp  = 70.0
	MinSpeedRatio     = 0.0
	MaxSpeedRatio     = 1.0
)

// DomainError reports an input outside the range a curve was fitted on.
type DomainError struct {
	Quantity string
	Value    float64
	Min      float64
	Max      float64
}

func (e *DomainError) Error() string {
	if math.IsInf(e.Max, 1) {
		return fmt.Sprintf("%s %v out of range (%v, +Inf)", e.Quantity, e.Value, e.Min)
	}
	return fmt.Sprintf("%s %v out of range [%v, %v]", e.Quantity, e.Value, e.Min, e.Max)
}

func checkRange(quantity string, v, lo, hi float64) error {
	// NaN fails both comparisons, so test for the in-range case
	if v >= lo && v <= hi {
		return nil
	}
	return &DomainError{Quantity: quantity, Value: v, Min: lo, Max: hi}
}

// CheckStaticPressure checks static pressure, inches of water column.
func CheckStaticPressure(static float64) error {
	return checkRange("static pressure", static, MinStaticPressure, MaxStaticPressure)
}

// CheckSupplyAirTemp checks supply air temperature, F.
func CheckSupplyAirTemp(supplyAirTemp float64) error {
	return checkRange("supply air temperature", supplyAirTemp, MinSupplyAirTemp, MaxSupplyAirTemp)
}

// CheckSpeedRatio checks a fan or pump speed ratio is in [0, 1].
func CheckSpeedRatio(speedRatio float64) error {
	return checkRange("speed ratio", speedRatio, MinSpeedRatio, MaxSpeedRatio)
}

// CheckDrive checks rated power is positive and efficiency is in (0, 1].
func CheckDrive(ratedPower, efficiency float64) error {
	if !(ratedPower > 0) || math.IsInf(ratedPower, 1) {
		return &DomainError{Quantity: "rated power", Value: ratedPower, Min: 0, Max: math.Inf(1)}
	}
	if !(efficiency > 0 && efficiency <= 1) {
		return &DomainError{Quantity: "efficiency", Value: efficiency, Min: 0, Max: 1}
	}
	return nil
}
