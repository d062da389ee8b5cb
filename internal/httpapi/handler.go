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

package httpapi

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/antst/mzahu/internal/estimator"
	"github.com/antst/mzahu/internal/logger"
)

const (
	apiPrefix           = "/api/v1"
	defaultHistoryLimit = 100
	maxHistoryLimit     = 10000
	maxBodyBytes        = 1 << 16
)

// EstimateSource is the running estimator.
type EstimateSource interface {
	Latest() (estimator.Estimate, bool)
	Params() estimator.Params
}

type History interface {
	RecentEstimates(ctx context.Context, limit int) ([]estimator.Estimate, error)
}

type Handler struct {
	src     EstimateSource
	history History
	log     *zap.SugaredLogger
}

func NewRouter(src EstimateSource, history History) *mux.Router {
	h := &Handler{src: src, history: history, log: logger.Named("http")}

	r := mux.NewRouter()
	r.HandleFunc(apiPrefix+"/estimate", h.Latest).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/evaluate", h.Evaluate).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/history", h.History).Methods(http.MethodGet)
	return r
}

// estimateJSON renders NaN and Inf outputs as null.
type estimateJSON struct {
	Timestamp      time.Time `json:"timestamp"`
	StaticPressure *float64  `json:"static_pressure"`
	SupplyAirTemp  *float64  `json:"supply_air_temp"`
	DamperPosition *float64  `json:"damper_position"`
	FanSpeed       *float64  `json:"fan_speed"`
	FanPower       *float64  `json:"fan_power"`
	ValvePosition  *float64  `json:"valve_position"`
	PumpSpeed      *float64  `json:"pump_speed"`
	PumpPower      *float64  `json:"pump_power"`
	Finite         bool      `json:"finite"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toJSON(e estimator.Estimate) estimateJSON {
	return estimateJSON{
		Timestamp:      e.Timestamp,
		StaticPressure: finite(e.StaticPressure),
		SupplyAirTemp:  finite(e.SupplyAirTemp),
		DamperPosition: finite(e.DamperPosition),
		FanSpeed:       finite(e.FanSpeed),
		FanPower:       finite(e.FanPower),
		ValvePosition:  finite(e.ValvePosition),
		PumpSpeed:      finite(e.PumpSpeed),
		PumpPower:      finite(e.PumpPower),
		Finite:         e.Finite(),
	}
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	e, ok := h.src.Latest()
	if !ok {
		http.Error(w, "No estimate yet", http.StatusNotFound)
		return
	}
	h.writeJSON(w, toJSON(e))
}

// EvaluateRequest: inputs are required, params default to the running ones.
type EvaluateRequest struct {
	StaticPressure *float64 `json:"static_pressure"`
	SupplyAirTemp  *float64 `json:"supply_air_temp"`
	LoadAdjustment *float64 `json:"load_adjustment,omitempty"`
	FanAdjustment  *float64 `json:"fan_adjustment,omitempty"`
	FanRatedPower  *float64 `json:"fan_rated_power,omitempty"`
	FanEfficiency  *float64 `json:"fan_efficiency,omitempty"`
	PumpRatedPower *float64 `json:"pump_rated_power,omitempty"`
	PumpEfficiency *float64 `json:"pump_efficiency,omitempty"`
}

type EvaluateResponse struct {
	Estimate estimateJSON     `json:"estimate"`
	Params   estimator.Params `json:"params"`
	Warnings []string         `json:"warnings,omitempty"`
}

func override(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.StaticPressure == nil || req.SupplyAirTemp == nil {
		http.Error(w, "static_pressure and supply_air_temp are required", http.StatusBadRequest)
		return
	}

	in := estimator.Inputs{StaticPressure: *req.StaticPressure, SupplyAirTemp: *req.SupplyAirTemp}
	p := h.src.Params()
	override(&p.LoadAdjustment, req.LoadAdjustment)
	override(&p.FanAdjustment, req.FanAdjustment)
	override(&p.FanRatedPower, req.FanRatedPower)
	override(&p.FanEfficiency, req.FanEfficiency)
	override(&p.PumpRatedPower, req.PumpRatedPower)
	override(&p.PumpEfficiency, req.PumpEfficiency)

	h.writeJSON(w, EvaluateResponse{
		Estimate: toJSON(estimator.Evaluate(in, p)),
		Params:   p,
		Warnings: estimator.Warnings(in, p),
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	estimates, err := h.history.RecentEstimates(r.Context(), limit)
	if err != nil {
		h.log.Error(err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	ret := make([]estimateJSON, len(estimates))
	for i, e := range estimates {
		ret[i] = toJSON(e)
	}
	h.writeJSON(w, ret)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(err)
	}
}
