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

package db

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/antst/mzahu/internal/estimator"
)

// ErrNotFound is returned by the getters when nothing was stored under the key.
var ErrNotFound = errors.New("not found")

const (
	upsertSensorValue = `
INSERT INTO sensor_values (sensor_name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (sensor_name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	getSensorValue = `SELECT value FROM sensor_values WHERE sensor_name = ?`

	upsertControllerValue = `
INSERT INTO controller_values (name, value) VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value`

	getControllerValue = `SELECT value FROM controller_values WHERE name = ?`

	insertEstimate = `
INSERT INTO estimates (
    created_at, static_pressure, supply_air_temp, damper_position,
    fan_speed, fan_power, valve_position, pump_speed, pump_power
) VALUES (
    :created_at, :static_pressure, :supply_air_temp, :damper_position,
    :fan_speed, :fan_power, :valve_position, :pump_speed, :pump_power
)`

	recentEstimates = `
SELECT created_at, static_pressure, supply_air_temp, damper_position,
       fan_speed, fan_power, valve_position, pump_speed, pump_power
FROM estimates ORDER BY id DESC LIMIT ?`
)

func (s *Store) UpsertSensorValue(ctx context.Context, name string, value float64) error {
	_, err := s.db.ExecContext(ctx, upsertSensorValue, name, value, time.Now())
	return errors.Wrapf(err, "store sensor `%s`", name)
}

func (s *Store) GetSensorValue(ctx context.Context, name string) (float64, error) {
	var v float64
	if err := s.db.GetContext(ctx, &v, getSensorValue, name); err != nil {
		return 0, notFound(err, "sensor `%s`", name)
	}
	return v, nil
}

func (s *Store) UpsertControllerValue(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, upsertControllerValue, name, value)
	return errors.Wrapf(err, "store controller value `%s`", name)
}

func (s *Store) GetControllerValue(ctx context.Context, name string) (string, error) {
	var v string
	if err := s.db.GetContext(ctx, &v, getControllerValue, name); err != nil {
		return "", notFound(err, "controller value `%s`", name)
	}
	return v, nil
}

// NaN is kept as NULL, ±Inf as REAL.
type estimateRow struct {
	CreatedAt      time.Time       `db:"created_at"`
	StaticPressure sql.NullFloat64 `db:"static_pressure"`
	SupplyAirTemp  sql.NullFloat64 `db:"supply_air_temp"`
	DamperPosition sql.NullFloat64 `db:"damper_position"`
	FanSpeed       sql.NullFloat64 `db:"fan_speed"`
	FanPower       sql.NullFloat64 `db:"fan_power"`
	ValvePosition  sql.NullFloat64 `db:"valve_position"`
	PumpSpeed      sql.NullFloat64 `db:"pump_speed"`
	PumpPower      sql.NullFloat64 `db:"pump_power"`
}

func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func value(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func (s *Store) InsertEstimate(ctx context.Context, e estimator.Estimate) error {
	row := estimateRow{
		CreatedAt:      e.Timestamp,
		StaticPressure: nullable(e.StaticPressure),
		SupplyAirTemp:  nullable(e.SupplyAirTemp),
		DamperPosition: nullable(e.DamperPosition),
		FanSpeed:       nullable(e.FanSpeed),
		FanPower:       nullable(e.FanPower),
		ValvePosition:  nullable(e.ValvePosition),
		PumpSpeed:      nullable(e.PumpSpeed),
		PumpPower:      nullable(e.PumpPower),
	}
	_, err := s.db.NamedExecContext(ctx, insertEstimate, row)
	return errors.Wrap(err, "store estimate")
}

// RecentEstimates returns up to limit estimates, newest first.
func (s *Store) RecentEstimates(ctx context.Context, limit int) ([]estimator.Estimate, error) {
	var rows []estimateRow
	if err := s.db.SelectContext(ctx, &rows, recentEstimates, limit); err != nil {
		return nil, errors.Wrap(err, "load estimates")
	}

	ret := make([]estimator.Estimate, len(rows))
	for i, r := range rows {
		ret[i] = estimator.Estimate{
			Timestamp:      r.CreatedAt,
			StaticPressure: value(r.StaticPressure),
			SupplyAirTemp:  value(r.SupplyAirTemp),
			DamperPosition: value(r.DamperPosition),
			FanSpeed:       value(r.FanSpeed),
			FanPower:       value(r.FanPower),
			ValvePosition:  value(r.ValvePosition),
			PumpSpeed:      value(r.PumpSpeed),
			PumpPower:      value(r.PumpPower),
		}
	}
	return ret, nil
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}
