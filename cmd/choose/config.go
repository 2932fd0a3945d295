/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// Config is the optional configuration file.
type Config struct {
	Logging *LoggingConfig `yaml:"logging"`
	Storage *StorageConfig `yaml:"storage"`
}

// LoggingConfig represents the logger configuration.
type LoggingConfig struct {
	// Encoding is the log encoding.
	// Possible values: json, console.
	Encoding string `yaml:"encoding"`
	// Level is the log level.
	Level zapcore.Level `yaml:"level"`
}

// StorageConfig says where stored tables live.
type StorageConfig struct {
	// Bolt is the filename of a BoltDB database.
	Bolt string `yaml:"bolt"`
}

// DefaultConfig logs warnings and errors to stderr and has no
// storage.
func DefaultConfig() *Config {
	return &Config{
		Logging: &LoggingConfig{
			Encoding: "console",
			Level:    zapcore.WarnLevel,
		},
		Storage: &StorageConfig{},
	}
}

// LoadConfig reads the file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Logging == nil {
		config.Logging = DefaultConfig().Logging
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}

	return config, nil
}

// NewLogger creates a logger that writes to stderr, leaving stdout
// for rendered output.
func NewLogger(config *LoggingConfig) (*zap.Logger, error) {
	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(config.Level),
		Encoding:          config.Encoding,
		DisableStacktrace: true,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "name",
			CallerKey:      "caller",
			MessageKey:     "msg",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
