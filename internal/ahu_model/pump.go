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

const (
	pumpBaseSpeed     = 0.6
	pumpBaseThreshold = 60.0

	pumpStaticReference = 1.5
	pumpStaticGain      = 10.0

	pumpA = 0.0015
	pumpB = -0.1845
	pumpC = 6.2675

	DefaultPumpRatedPower = 25.0
)

// PumpThreshold returns the supply air temperature at or above which the
// chilled-water pump runs at base speed, shifted by static pressure.
func PumpThreshold(static float64) float64 {
	return pumpBaseThreshold - (static-pumpStaticReference)*pumpStaticGain
}

// PumpSpeed returns the chilled-water pump speed ratio from supply air
// temperature (F) and static pressure. At or above PumpThreshold the pump
// holds base speed 0.6, below it follows the temperature curve unclamped.
func PumpSpeed(supplyAirTemp, static float64) float64 {
	if supplyAirTemp >= PumpThreshold(static) {
		return pumpBaseSpeed
	}
	t := supplyAirTemp + (static-pumpStaticReference)*pumpStaticGain
	return pumpA*t*t + pumpB*t + pumpC
}

// PumpPower returns pump electric power in kW at speedRatio for a pump rated
// at ratedPower horsepower with the given drive efficiency.
func PumpPower(speedRatio, ratedPower, efficiency float64) float64 {
	return partLoadPower(speedRatio, ratedPower, efficiency)
}

// PumpPowerDefault is PumpPower for a 25 hp pump at 0.9 efficiency.
func PumpPowerDefault(speedRatio float64) float64 {
	return PumpPower(speedRatio, DefaultPumpRatedPower, DefaultEfficiency)
}
