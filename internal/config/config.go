// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AccountingConfig holds OAuth2 client credentials for the downstream
// accounting API.
type AccountingConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// ERPConfig holds access settings for the upstream platform's file API.
type ERPConfig struct {
	BaseURL string
	Token   string
}

// Config holds all configuration for the attachment bridge.
type Config struct {
	// Gateway server
	Port         int
	APIKey       string // shared secret for the gateway endpoints
	MaxBodyBytes int64

	// Gateway URL as seen by the batch runner
	GatewayURL string

	ERP        ERPConfig
	Accounting AccountingConfig
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Server struct {
		Port   int    `yaml:"port"`
		APIKey string `yaml:"api_key"`
	} `yaml:"server"`
	Gateway struct {
		URL string `yaml:"url"`
	} `yaml:"gateway"`
	ERP struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token"`
	} `yaml:"erp"`
	Accounting struct {
		BaseURL      string   `yaml:"base_url"`
		TokenURL     string   `yaml:"token_url"`
		ClientID     string   `yaml:"client_id"`
		ClientSecret string   `yaml:"client_secret"`
		Scopes       []string `yaml:"scopes"`
	} `yaml:"accounting"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// environment variables for non-YAML settings.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "/app/config/config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	// Expand ${VAR} references in the YAML
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	cfg := &Config{
		Port:         firstNonZero(raw.Server.Port, envOrDefaultInt("PORT", 8090)),
		APIKey:       firstNonEmpty(raw.Server.APIKey, os.Getenv("GATEWAY_API_KEY")),
		MaxBodyBytes: envOrDefaultInt64("MAX_BODY_BYTES", 10<<20),
		GatewayURL:   firstNonEmpty(raw.Gateway.URL, envOrDefault("GATEWAY_URL", "http://localhost:8090")),
		ERP: ERPConfig{
			BaseURL: firstNonEmpty(raw.ERP.BaseURL, os.Getenv("ERP_BASE_URL")),
			Token:   firstNonEmpty(raw.ERP.Token, os.Getenv("ERP_TOKEN")),
		},
		Accounting: AccountingConfig{
			BaseURL:      raw.Accounting.BaseURL,
			TokenURL:     raw.Accounting.TokenURL,
			ClientID:     raw.Accounting.ClientID,
			ClientSecret: raw.Accounting.ClientSecret,
			Scopes:       raw.Accounting.Scopes,
		},
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("server.api_key is required — the gateway cannot run without its shared secret")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
