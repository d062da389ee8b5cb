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
	"math"
	"testing"
)

const tolerance = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestDamperPosition(t *testing.T) {
	tests := []struct {
		static, adj, want float64
	}{
		{1.0, 0, 0.5408},
		{1.0, 0.1, 0.6408},
		{0.0, 0, 1.6964},
		{2.0, 0, 0.4168},
		{2.0, -0.5, -0.0832},
	}
	for _, tt := range tests {
		if got := DamperPosition(tt.static, tt.adj); !near(got, tt.want) {
			t.Errorf("DamperPosition(%v, %v) = %v, want %v", tt.static, tt.adj, got, tt.want)
		}
	}
}

func TestFanSpeed(t *testing.T) {
	if got, want := FanSpeed(1.0, DefaultFanAdjustment), 28.345/60; !near(got, want) {
		t.Errorf("FanSpeed(1, 1) = %v, want %v", got, want)
	}
	if got, want := FanSpeed(1.0, 2), 2*28.345/60; !near(got, want) {
		t.Errorf("FanSpeed(1, 2) = %v, want %v", got, want)
	}
	if got, want := FanSpeed(2.0, 1), 0.5984620907415247; !near(got, want) {
		t.Errorf("FanSpeed(2, 1) = %v, want %v", got, want)
	}
	if got := FanSpeed(0, 1); got != 0 {
		t.Errorf("FanSpeed(0, 1) = %v, want 0", got)
	}
	if got := FanSpeed(-1, 1); !math.IsNaN(got) {
		t.Errorf("FanSpeed(-1, 1) = %v, want NaN", got)
	}
}

func TestValvePosition(t *testing.T) {
	tests := []struct {
		name          string
		temp, static  float64
		want          float64
		exactlyCapped bool
	}{
		{"capped", 40, 1.5, 1.0, true},
		{"reference point", 60, 1.5, 0.4018, false},
		{"curve", 70, 1.5, 0.2248, false},
		{"negative passes through", 76, 2.5, -0.0046, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValvePosition(tt.temp, tt.static)
			if tt.exactlyCapped && got != 1.0 {
				t.Fatalf("ValvePosition(%v, %v) = %v, want exactly 1", tt.temp, tt.static, got)
			}
			if !near(got, tt.want) {
				t.Errorf("ValvePosition(%v, %v) = %v, want %v", tt.temp, tt.static, got, tt.want)
			}
		})
	}
}

func TestValvePositionCapOnlyAbove(t *testing.T) {
	for temp := 30.0; temp <= 80.0; temp += 0.5 {
		for static := 0.3; static <= 2.5; static += 0.1 {
			raw := valveA*temp*temp + valveB*temp + valveC - (static-valveStaticReference)*valveStaticGain
			got := ValvePosition(temp, static)
			if raw > 1 {
				if got != 1.0 {
					t.Fatalf("ValvePosition(%v, %v) = %v, want 1 for raw %v", temp, static, got, raw)
				}
				continue
			}
			if !near(got, raw) {
				t.Fatalf("ValvePosition(%v, %v) = %v, want unclamped %v", temp, static, got, raw)
			}
		}
	}
}

func TestPumpSpeed(t *testing.T) {
	tests := []struct {
		name         string
		temp, static float64
		want         float64
	}{
		{"at threshold", 60, 1.5, 0.6},
		{"above threshold", 68, 1.5, 0.6},
		{"shifted threshold", 55, 2.0, 0.6},
		{"below threshold", 59, 1.5, 0.6035},
		{"below shifted threshold", 54, 2.0, 0.6035},
		{"low static", 70, 0.3, 0.6125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PumpSpeed(tt.temp, tt.static); !near(got, tt.want) {
				t.Errorf("PumpSpeed(%v, %v) = %v, want %v", tt.temp, tt.static, got, tt.want)
			}
		})
	}
}

func TestPumpSpeedBranchBoundary(t *testing.T) {
	for _, static := range []float64{0.5, 1.0, 1.5, 2.0, 2.5} {
		th := PumpThreshold(static)
		if got := PumpSpeed(th, static); got != pumpBaseSpeed {
			t.Errorf("PumpSpeed(%v, %v) at threshold = %v, want %v", th, static, got, pumpBaseSpeed)
		}
		if got := PumpSpeed(th-1, static); got == pumpBaseSpeed {
			t.Errorf("PumpSpeed(%v, %v) below threshold returned base speed", th-1, static)
		}
	}
}

func TestPowerDefaults(t *testing.T) {
	for r := 0.0; r <= 1.0; r += 0.05 {
		if FanPowerDefault(r) != FanPower(r, 15, 0.9) {
			t.Errorf("FanPowerDefault(%v) differs from FanPower(%v, 15, 0.9)", r, r)
		}
		if PumpPowerDefault(r) != PumpPower(r, 25, 0.9) {
			t.Errorf("PumpPowerDefault(%v) differs from PumpPower(%v, 25, 0.9)", r, r)
		}
		if FanPower(r, 1, 1) != PumpPower(r, 1, 1) {
			t.Errorf("fan and pump curves differ at %v", r)
		}
	}
}

func TestPowerValues(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"fan full speed", FanPowerDefault(1), 12.542674},
		{"fan stopped", FanPowerDefault(0), 0.027342333333333333},
		{"fan half speed", FanPowerDefault(0.5), 1.7207027500000003},
		{"pump full speed", PumpPowerDefault(1), 20.904456666666672},
	}
	for _, tt := range tests {
		if !near(tt.got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestPowerMonotonic(t *testing.T) {
	prevFan, prevPump := math.Inf(-1), math.Inf(-1)
	for i := 0; i <= 100; i++ {
		r := float64(i) / 100
		fan, pump := FanPowerDefault(r), PumpPowerDefault(r)
		if fan < prevFan {
			t.Fatalf("fan power decreases at %v: %v < %v", r, fan, prevFan)
		}
		if pump < prevPump {
			t.Fatalf("pump power decreases at %v: %v < %v", r, pump, prevPump)
		}
		prevFan, prevPump = fan, pump
	}
}

func TestPowerBadEfficiency(t *testing.T) {
	if got := FanPower(0.5, 15, 0); !math.IsInf(got, 1) {
		t.Errorf("FanPower with zero efficiency = %v, want +Inf", got)
	}
	if got := PumpPower(0.5, 25, -0.9); got >= 0 {
		t.Errorf("PumpPower with negative efficiency = %v, want negative", got)
	}
	if got := PumpPower(math.NaN(), 25, 0.9); !math.IsNaN(got) {
		t.Errorf("PumpPower(NaN) = %v, want NaN", got)
	}
}

func TestDeterministic(t *testing.T) {
	fns := map[string]func() float64{
		"damper": func() float64 { return DamperPosition(1.37, 0.02) },
		"fan":    func() float64 { return FanSpeed(1.37, 1.1) },
		"fanpwr": func() float64 { return FanPower(0.73, 15, 0.9) },
		"valve":  func() float64 { return ValvePosition(63.2, 1.37) },
		"pump":   func() float64 { return PumpSpeed(57.1, 1.37) },
		"pmppwr": func() float64 { return PumpPower(0.73, 25, 0.9) },
	}
	for name, fn := range fns {
		first := math.Float64bits(fn())
		for i := 0; i < 10; i++ {
			if got := math.Float64bits(fn()); got != first {
				t.Fatalf("%s: call %d returned different bits", name, i)
			}
		}
	}
}
