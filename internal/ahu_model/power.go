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
	// VFD part-load power ratio curve
	plrA = 1.0608
	plrB = -0.1222
	plrC = 0.0684
	plrD = 0.0022

	hpToKW = 0.7457

	DefaultEfficiency = 0.9
)

// PartLoadRatio returns the fraction of rated power drawn at speedRatio.
func PartLoadRatio(speedRatio float64) float64 {
	r2 := speedRatio * speedRatio
	return plrA*r2*speedRatio + plrB*r2 + plrC*speedRatio + plrD
}

// efficiency is not checked, zero gives Inf and negative gives a negative power
func partLoadPower(speedRatio, ratedPower, efficiency float64) float64 {
	return PartLoadRatio(speedRatio) * ratedPower * hpToKW / efficiency
}
