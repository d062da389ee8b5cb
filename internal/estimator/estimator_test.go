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
	"testing"

	"github.com/antst/mzahu/internal/ahu_model"
)

func TestEvaluateChainsSpeedIntoPower(t *testing.T) {
	in := Inputs{StaticPressure: 1.2, SupplyAirTemp: 57}
	p := DefaultParams()
	e := Evaluate(in, p)

	if want := ahu_model.FanSpeed(1.2, 1); e.FanSpeed != want {
		t.Errorf("FanSpeed = %v, want %v", e.FanSpeed, want)
	}
	if want := ahu_model.FanPowerDefault(e.FanSpeed); e.FanPower != want {
		t.Errorf("FanPower = %v, want %v", e.FanPower, want)
	}
	if want := ahu_model.PumpSpeed(57, 1.2); e.PumpSpeed != want {
		t.Errorf("PumpSpeed = %v, want %v", e.PumpSpeed, want)
	}
	if want := ahu_model.PumpPowerDefault(e.PumpSpeed); e.PumpPower != want {
		t.Errorf("PumpPower = %v, want %v", e.PumpPower, want)
	}
	if want := ahu_model.DamperPosition(1.2, 0); e.DamperPosition != want {
		t.Errorf("DamperPosition = %v, want %v", e.DamperPosition, want)
	}
	if want := ahu_model.ValvePosition(57, 1.2); e.ValvePosition != want {
		t.Errorf("ValvePosition = %v, want %v", e.ValvePosition, want)
	}
	if e.StaticPressure != 1.2 || e.SupplyAirTemp != 57 || e.Timestamp.IsZero() {
		t.Errorf("inputs not carried: %+v", e)
	}
	if !e.Finite() {
		t.Error("expected finite estimate")
	}
}

func TestEvaluateParams(t *testing.T) {
	in := Inputs{StaticPressure: 1.5, SupplyAirTemp: 62}
	p := DefaultParams()
	p.LoadAdjustment = 0.1
	p.FanAdjustment = 1.2
	p.PumpRatedPower = 30
	e := Evaluate(in, p)

	if want := ahu_model.DamperPosition(1.5, 0.1); e.DamperPosition != want {
		t.Errorf("DamperPosition = %v, want %v", e.DamperPosition, want)
	}
	if want := ahu_model.FanSpeed(1.5, 1.2); e.FanSpeed != want {
		t.Errorf("FanSpeed = %v, want %v", e.FanSpeed, want)
	}
	if want := ahu_model.PumpPower(0.6, 30, 0.9); e.PumpPower != want {
		t.Errorf("PumpPower = %v, want %v", e.PumpPower, want)
	}
}

func TestEstimateNotFinite(t *testing.T) {
	e := Evaluate(Inputs{StaticPressure: -1, SupplyAirTemp: 60}, DefaultParams())
	if e.Finite() {
		t.Errorf("negative static should give a NaN fan speed: %+v", e)
	}

	p := DefaultParams()
	p.PumpEfficiency = 0
	if Evaluate(Inputs{StaticPressure: 1, SupplyAirTemp: 60}, p).Finite() {
		t.Error("zero pump efficiency should give an infinite pump power")
	}
}

func TestOutputs(t *testing.T) {
	e := Evaluate(Inputs{StaticPressure: 1, SupplyAirTemp: 65}, DefaultParams())
	out := e.Outputs()
	if len(out) != 6 {
		t.Fatalf("expected 6 outputs, got %d", len(out))
	}
	if out["valve_position"] != e.ValvePosition || out["pump_power"] != e.PumpPower {
		t.Errorf("outputs do not match estimate: %v", out)
	}
}

func TestWarnings(t *testing.T) {
	if w := Warnings(Inputs{StaticPressure: 1, SupplyAirTemp: 60}, DefaultParams()); w != nil {
		t.Errorf("expected no warnings, got %v", w)
	}

	p := DefaultParams()
	p.FanEfficiency = 0
	w := Warnings(Inputs{StaticPressure: 3, SupplyAirTemp: 50}, p)
	if len(w) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(w), w)
	}
}
