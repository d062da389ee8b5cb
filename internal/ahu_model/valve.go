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
	valveA = 0.0008
	valveB = -0.1217
	valveC = 4.8238

	valveStaticReference = 1.5
	valveStaticGain      = 0.2
	maxValvePosition     = 1.0
)

// ValvePosition returns the chilled-water valve opening ratio from supply air
// temperature (F) and static pressure. The result is capped at 1, values
// below 0 are returned unchanged.
func ValvePosition(supplyAirTemp, static float64) float64 {
	adjust := -(static - valveStaticReference) * valveStaticGain
	pos := valveA*supplyAirTemp*supplyAirTemp + valveB*supplyAirTemp + valveC + adjust
	if pos > maxValvePosition {
		pos = maxValvePosition
	}
	return pos
}
