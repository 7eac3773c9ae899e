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

package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLevelString 测试日志级别的字符串表示
func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{OFF, "OFF"},
		{Level(999), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

// TestParseLevel 测试日志级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    Level
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{" Info ", INFO, false},
		{"warning", WARN, false},
		{"WARN", WARN, false},
		{"error", ERROR, false},
		{"off", OFF, false},
		{"verbose", OFF, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestLevelFiltering 测试级别过滤
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(WARN, &buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn %s", "message")
	log.Error("error %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "[WARN] warn message")
	assert.Contains(t, out, "[ERROR] error 42")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

// TestSetLevel 测试动态修改日志级别
func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(ERROR, &buf)
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.SetLevel(DEBUG)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "[DEBUG] visible")

	buf.Reset()
	log.SetLevel(OFF)
	log.Error("hidden")
	assert.Empty(t, buf.String())
}

// TestComponentLogger 测试带组件名的日志
func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewComponentLogger("binder", DEBUG, &buf)
	log.Info("bound %d tables", 2)
	assert.Contains(t, buf.String(), "[INFO] [binder] bound 2 tables")
}

// TestDiscardLogger 测试丢弃日志器
func TestDiscardLogger(t *testing.T) {
	log := NewDiscardLogger()
	assert.NotPanics(t, func() {
		log.Debug("x")
		log.Info("x")
		log.Warn("x")
		log.Error("x")
		log.SetLevel(DEBUG)
	})
}

// TestDefaultLogger 测试全局默认日志器
func TestDefaultLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLogger(DEBUG, &buf))
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	out := buf.String()
	for _, s := range []string{"[DEBUG] d", "[INFO] i", "[WARN] w", "[ERROR] e"} {
		assert.Contains(t, out, s)
	}

	SetDefault(nil)
	assert.NotNil(t, GetDefault())
	assert.NotPanics(t, func() { Info("dropped") })
}
