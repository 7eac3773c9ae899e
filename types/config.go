/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config 解析会话配置
type Config struct {
	// ValidateExpressions binds the variables nested in computed columns and in
	// WHERE with the same rules as plain columns.
	ValidateExpressions bool `json:"validateExpressions" yaml:"validateExpressions"`
	// AllowTableNameCoveredByAlias lets "t.f" reach table t even when every
	// occurrence of t in FROM carries an alias.
	AllowTableNameCoveredByAlias bool `json:"allowTableNameCoveredByAlias" yaml:"allowTableNameCoveredByAlias"`
	// MaxStatementLength limits the statement size in bytes; 0 means unlimited.
	MaxStatementLength int `json:"maxStatementLength" yaml:"maxStatementLength"`
	// LogLevel is the name of the session log level, empty keeps the logger as is.
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.MaxStatementLength < 0 {
		return fmt.Errorf("maxStatementLength must not be negative, got %d", c.MaxStatementLength)
	}
	return nil
}

// LoadConfig reads a configuration document. JSON documents are accepted as
// they are valid YAML. Keys missing from the document keep their defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := NewConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
