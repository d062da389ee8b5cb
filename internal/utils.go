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
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/antst/mzahu/internal/estimator"
)

const (
	mqttQoS         = 1
	childChanBuffer = 16
	publishTimeout  = 5 * time.Second
)

var zeroTS = time.UnixMicro(0)

// StateStore keeps values across restarts. *db.Store implements it.
type StateStore interface {
	UpsertSensorValue(ctx context.Context, name string, value float64) error
	GetSensorValue(ctx context.Context, name string) (float64, error)
	UpsertControllerValue(ctx context.Context, name, value string) error
	GetControllerValue(ctx context.Context, name string) (string, error)
	InsertEstimate(ctx context.Context, e estimator.Estimate) error
}

// extractF64PlainOrJson reads a number from a plain payload, or from the
// dotted jsonEntry path of a JSON object payload.
func extractF64PlainOrJson(message mqtt.Message, jsonEntry *string) (float64, error) {
	payload := message.Payload()
	if jsonEntry == nil {
		return strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
	}

	var v interface{}
	if err := json.Unmarshal(payload, &v); err != nil {
		return 0, errors.Wrapf(err, "json unmarshal error with : %v : %v", message.Topic(), string(payload))
	}

	for _, key := range strings.Split(*jsonEntry, ".") {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return 0, fmt.Errorf("not an object at `%v` of `%v` in `%v`: %v", key, *jsonEntry, message.Topic(), string(payload))
		}
		if v, ok = obj[key]; !ok {
			return 0, fmt.Errorf("not found: `%v` in `%v`: %v", *jsonEntry, message.Topic(), string(payload))
		}
	}

	switch t0 := v.(type) {
	case float64:
		return t0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t0), 64)
		return f, errors.Wrapf(err, "`%v` in %v", *jsonEntry, message.Topic())
	default:
		return 0, fmt.Errorf("cannot cast `%v` to float64 in : %v : %v", v, message.Topic(), string(payload))
	}
}

func lastTopicSegment(topic string) string {
	return topic[strings.LastIndex(topic, "/")+1:]
}

// notify signals ch without blocking. A pending signal already covers this one.
func notify[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}
