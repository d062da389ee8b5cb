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

// Package ahu_model holds the curve-fit regressions that estimate air handling
// unit and chilled-water loop operating parameters from static pressure and
// supply air temperature.
//
// Every function is a pure evaluation. Inputs are not range-checked: out of
// domain values produce out of range, NaN or Inf results. See domain.go for
// the documented input ranges and optional checks.
package ahu_model

// Damper position curve, cubic in static pressure, highest degree first.
var damperCoeff = [4]float64{-0.221, 1.1788, -2.1134, 1.6964}

// DefaultLoadAdjustment is the neutral additive bias for DamperPosition.
const DefaultLoadAdjustment = 0.0

// DamperPosition returns the damper opening ratio (1 is fully open) for the
// given static pressure, in inches of water column. loadAdjustment is added
// to the curve value as is. The result is not clamped.
func DamperPosition(static, loadAdjustment float64) float64 {
	s2 := static * static
	pos := damperCoeff[0]*s2*static + damperCoeff[1]*s2 + damperCoeff[2]*static + damperCoeff[3]
	return pos + loadAdjustment
}
