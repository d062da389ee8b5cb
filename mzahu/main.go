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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/antst/mzahu/internal"
	"github.com/antst/mzahu/internal/config"
	"github.com/antst/mzahu/internal/db"
	"github.com/antst/mzahu/internal/httpapi"
	"github.com/antst/mzahu/internal/logger"
	"github.com/antst/mzahu/internal/safe_mqtt"
)

// Build version, overridden with flag during build.
var version = "devel"

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.Close()
	log := logger.L()
	log.Warnf("AHU Estimator, version: %+v", version)

	cfg, err := config.Load(os.Args)
	if err != nil {
		log.Error(err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(cfg.DBFile)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error(err)
		}
	}()

	client, err := safe_mqtt.InitMQTTClient(ctx, safe_mqtt.Options{
		URL:      cfg.MQTTConfig.URL,
		Username: cfg.MQTTConfig.Username,
		Password: cfg.MQTTConfig.Password,
	})
	if err != nil {
		log.Error(err)
		return 1
	}
	defer client.Close()

	c := internal.NewEstimatorController(cfg, client, store)

	// closed once the HTTP API is down, the store must outlive it
	httpDone := make(chan struct{})
	if cfg.HTTP.Listen != "" {
		go func() {
			defer close(httpDone)
			if err := httpapi.Serve(ctx, cfg.HTTP.Listen, c, store); err != nil {
				log.Error(err)
				stop()
			}
		}()
	} else {
		close(httpDone)
	}

	c.Run(ctx)
	log.Info("Shutting down")
	<-httpDone
	return 0
}
