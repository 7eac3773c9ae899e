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

// Package logger provides the leveled logger used by the parser, the binder and
// the parse session.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level defines log levels
type Level int

const (
	// DEBUG traces grammar reductions and binding decisions
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	// OFF disables logging
	OFF
)

var levelNames = [...]string{DEBUG: "DEBUG", INFO: "INFO", WARN: "WARN", ERROR: "ERROR", OFF: "OFF"}

// String returns string representation of log level
func (l Level) String() string {
	if l < DEBUG || l > OFF {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel converts a level name such as "debug" or "WARN" to a Level.
func ParseLevel(name string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "WARNING" {
		return WARN, nil
	}
	for i, n := range levelNames {
		if n == upper {
			return Level(i), nil
		}
	}
	return OFF, fmt.Errorf("unknown log level %q", name)
}

// Logger interface defines basic methods for logging
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	// SetLevel sets the minimum level that is written
	SetLevel(level Level)
}

// defaultLogger writes "[timestamp] [LEVEL] [component] message" lines.
type defaultLogger struct {
	mu        sync.Mutex
	level     Level
	component string
	logger    *log.Logger
}

// NewLogger creates a logger writing records at or above level to output.
//
// Example:
//
//	log := NewLogger(DEBUG, os.Stderr)
//	log.Debug("binding column %d", 0)
func NewLogger(level Level, output io.Writer) Logger {
	return &defaultLogger{level: level, logger: log.New(output, "", 0)}
}

// NewComponentLogger creates a logger whose records are tagged with component.
func NewComponentLogger(component string, level Level, output io.Writer) Logger {
	return &defaultLogger{level: level, component: component, logger: log.New(output, "", 0)}
}

func (l *defaultLogger) Debug(format string, args ...interface{}) { l.log(DEBUG, format, args...) }
func (l *defaultLogger) Info(format string, args ...interface{})  { l.log(INFO, format, args...) }
func (l *defaultLogger) Warn(format string, args ...interface{})  { l.log(WARN, format, args...) }
func (l *defaultLogger) Error(format string, args ...interface{}) { l.log(ERROR, format, args...) }

func (l *defaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *defaultLogger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level == OFF || level < l.level {
		return
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	sb.WriteString("] [")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	if l.component != "" {
		sb.WriteString("[")
		sb.WriteString(l.component)
		sb.WriteString("] ")
	}
	sb.WriteString(fmt.Sprintf(format, args...))
	l.logger.Println(sb.String())
}

// discardLogger is a logger that discards all log output
type discardLogger struct{}

// NewDiscardLogger creates a logger that discards all logs
func NewDiscardLogger() Logger {
	return discardLogger{}
}

func (discardLogger) Debug(format string, args ...interface{}) {}
func (discardLogger) Info(format string, args ...interface{})  {}
func (discardLogger) Warn(format string, args ...interface{})  {}
func (discardLogger) Error(format string, args ...interface{}) {}
func (discardLogger) SetLevel(level Level)                     {}

var (
	defaultMu       sync.RWMutex
	defaultInstance Logger = NewLogger(WARN, os.Stderr)
)

// SetDefault sets the global default logger. A nil logger disables logging.
func SetDefault(logger Logger) {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	defaultMu.Lock()
	defaultInstance = logger
	defaultMu.Unlock()
}

// GetDefault gets the global default logger
func GetDefault() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultInstance
}

// Debug uses the default logger to record debug information
func Debug(format string, args ...interface{}) {
	GetDefault().Debug(format, args...)
}

// Info uses the default logger to record information
func Info(format string, args ...interface{}) {
	GetDefault().Info(format, args...)
}

// Warn uses the default logger to record warnings
func Warn(format string, args ...interface{}) {
	GetDefault().Warn(format, args...)
}

// Error uses the default logger to record errors
func Error(format string, args ...interface{}) {
	GetDefault().Error(format, args...)
}
