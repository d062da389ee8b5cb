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

import "math"

const (
	fanSpeedScale    = 28.345
	fanSpeedExponent = 0.3412
	// curve is fitted in Hz
	fanSpeedDivisor = 60.0

	DefaultFanAdjustment = 1.0
	DefaultFanRatedPower = 15.0
)

// FanSpeed returns the supply fan speed ratio for the given static pressure.
// static must be positive, a negative base yields NaN.
func FanSpeed(static, fanAdjustment float64) float64 {
	speed := fanSpeedScale * math.Pow(static, fanSpeedExponent) * fanAdjustment
	return speed / fanSpeedDivisor
}

// FanPower returns fan electric power in kW at speedRatio for a fan rated at
// ratedPower horsepower with the given drive efficiency.
func FanPower(speedRatio, ratedPower, efficiency float64) float64 {
	return partLoadPower(speedRatio, ratedPower, efficiency)
}

// FanPowerDefault is FanPower for a 15 hp fan at 0.9 efficiency.
func FanPowerDefault(speedRatio float64) float64 {
	return FanPower(speedRatio, DefaultFanRatedPower, DefaultEfficiency)
}
