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

package config

import (
	"fmt"
	"io"
	"os"

	"github.com/antst/mzahu/internal/logger"

	"github.com/joho/godotenv"
	"github.com/pborman/getopt/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultDBFile      = "~/.mzahu.db"
	defaultConfigFile  = "config.yaml"
	defaultEnvFile     = ".env"
	DefaultAverageType = "mean"

	envMQTTUsername = "MZAHU_MQTT_USERNAME"
	envMQTTPassword = "MZAHU_MQTT_PASSWORD"
)

type Config struct {
	LogLevel   zapcore.Level    `yaml:"log_level"`
	MQTTConfig *MQTTConfig      `yaml:"mqtt"`
	HTTP       *HTTPConfig      `yaml:"http"`
	Publish    *PublishConfig   `yaml:"publish"`
	DBFile     string           `yaml:"db_file"`
	Air        *AirSideConfig   `yaml:"air"`
	Water      *WaterSideConfig `yaml:"water"`
}

func defConfig() *Config {
	return &Config{
		MQTTConfig: NewMQTTConfig(),
		HTTP:       &HTTPConfig{},
		Publish:    NewPublishConfig(),
		DBFile:     defaultDBFile,
		Air:        NewAirSideConfig(),
		Water:      NewWaterSideConfig(),
	}
}

func prettyPrint(cfg *Config) {
	masked := *cfg
	if cfg.MQTTConfig != nil && cfg.MQTTConfig.Password != "" {
		m := *cfg.MQTTConfig
		m.Password = "******"
		masked.MQTTConfig = &m
	}
	d, err := yaml.Marshal(&masked)
	if err != nil {
		logger.L().Error("Failed to marshal config for pretty print", err)
		return
	}
	logger.L().Debugf("--- Config ---\n%s\n\n", string(d))
}

func (cfg *Config) FillDefaults() {
	if cfg.MQTTConfig == nil {
		cfg.MQTTConfig = NewMQTTConfig()
	}
	cfg.MQTTConfig.FillDefaults()
	if cfg.HTTP == nil {
		cfg.HTTP = &HTTPConfig{}
	}
	if cfg.Publish == nil {
		cfg.Publish = NewPublishConfig()
	}
	cfg.Publish.FillDefaults()
	if cfg.Air == nil {
		cfg.Air = NewAirSideConfig()
	}
	cfg.Air.FillDefaults()
	if cfg.Water == nil {
		cfg.Water = NewWaterSideConfig()
	}
	cfg.Water.FillDefaults()
	if cfg.DBFile == "" {
		cfg.DBFile = defaultDBFile
	}
}

// Load builds the config from command line args (args[0] is the program
// name), the config file, the env file and the environment, in that order of
// precedence.
func Load(args []string) (*Config, error) {
	set := getopt.New()
	logLevel := set.StringLong("log-level", 'l', "", "log levels: debug, info, warn, error, dpanic, panic, fatal")
	configFile := set.StringLong("config", 'c', defaultConfigFile, "config file pathname")
	dbFile := set.StringLong("db", 'd', "", "DB file pathname")
	envFile := set.StringLong("env", 'e', defaultEnvFile, "env file with MQTT credentials")
	help := set.BoolLong("help", 'h', "display help")

	if err := set.Getopt(args, nil); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}
	if *help {
		set.PrintUsage(os.Stdout)
		os.Exit(0)
	}

	cfg := defConfig()
	if err := readFile(cfg, *configFile); err != nil {
		return nil, err
	}
	logger.L().Infof("Using config file `%v`", *configFile)

	if err := readEnv(cfg, *envFile); err != nil {
		return nil, err
	}

	if *dbFile != "" {
		cfg.DBFile = *dbFile
	}
	cfg.FillDefaults()
	logger.L().Infof("Using DB file `%v`", cfg.DBFile)

	if *logLevel != "" {
		if err := cfg.LogLevel.Set(*logLevel); err != nil {
			logger.L().Errorf("Wrong log level `%v`: %v", *logLevel, err)
		}
	}
	logger.SetLogLevel(cfg.LogLevel)

	if len(cfg.Air.StaticPressure.Sensors) == 0 {
		logger.L().Warn("No static pressure sensors configured, estimates will not be produced")
	}
	if len(cfg.Water.SupplyAirTemperature.Sensors) == 0 {
		logger.L().Warn("No supply air temperature sensors configured, estimates will not be produced")
	}

	prettyPrint(cfg)

	return cfg, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func readFile(cfg *Config, configFileName string) error {
	if !fileExists(configFileName) {
		return nil
	}

	f, err := os.Open(configFileName)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	return nil
}

// Variables already set in the environment win over the env file.
func readEnv(cfg *Config, envFile string) error {
	if envFile != "" && fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}
	if cfg.MQTTConfig == nil {
		cfg.MQTTConfig = NewMQTTConfig()
	}
	if v := os.Getenv(envMQTTUsername); v != "" {
		cfg.MQTTConfig.Username = v
	}
	if v := os.Getenv(envMQTTPassword); v != "" {
		cfg.MQTTConfig.Password = v
	}
	return nil
}

func GetPTR[T any](v T) *T {
	return &v
}
