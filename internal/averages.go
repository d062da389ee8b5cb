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

package internal

import (
	"sort"
	"time"
)

const epsilon = 1e-10

type averageFunc func([]*SensorController) (float64, time.Time)

var averageFuncs = map[string]averageFunc{
	"mean":   sensorsMean,
	"median": sensorsMedian,
	"max":    sensorsMax,
}

// Sensors that never reported are skipped by all averages. A zero timestamp
// means there is nothing to average yet.

func sensorsMean(sensors []*SensorController) (float64, time.Time) {
	var v, wt float64

	for _, sensor := range sensors {
		value, weight, ts := sensor.get()
		if ts.After(zeroTS) {
			v += value * weight
			wt += weight
		}
	}

	if wt < epsilon {
		return 0, zeroTS
	}

	return v / wt, time.Now()
}

// weights are ignored
func sensorsMedian(sensors []*SensorController) (float64, time.Time) {
	vals := reported(sensors)
	n := len(vals)
	if n == 0 {
		return 0, zeroTS
	}

	sort.Float64s(vals)
	if n%2 == 1 {
		return vals[n/2], time.Now()
	}
	return (vals[n/2-1] + vals[n/2]) / 2, time.Now()
}

func sensorsMax(sensors []*SensorController) (float64, time.Time) {
	vals := reported(sensors)
	if len(vals) == 0 {
		return 0, zeroTS
	}

	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m, time.Now()
}

func reported(sensors []*SensorController) []float64 {
	vals := make([]float64, 0, len(sensors))
	for _, sensor := range sensors {
		if value, _, ts := sensor.get(); ts.After(zeroTS) {
			vals = append(vals, value)
		}
	}
	return vals
}
