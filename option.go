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

package sqlquery

import (
	"io"

	"github.com/rulego/sqlquery/logger"
	"github.com/rulego/sqlquery/types"
)

// Option 表示对解析会话默认行为的修改配置。
type Option func(*Parser)

// WithLogger 设置会话使用的日志记录器。
//
// 示例:
//
//	p := sqlquery.New(catalog, sqlquery.WithLogger(logger.NewLogger(logger.DEBUG, os.Stderr)))
func WithLogger(log logger.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// WithLogLevel 设置会话日志记录器的级别。
//
// 示例:
//
//	// 跟踪语法规约和绑定过程
//	p := sqlquery.New(catalog, sqlquery.WithLogLevel(logger.DEBUG))
func WithLogLevel(level logger.Level) Option {
	return func(p *Parser) {
		p.log.SetLevel(level)
	}
}

// WithLogOutput 设置日志输出目标和级别。
//
// 示例:
//
//	p := sqlquery.New(catalog, sqlquery.WithLogOutput(os.Stderr, logger.WARN))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(p *Parser) {
		p.log = logger.NewComponentLogger("sqlquery", level, output)
	}
}

// WithDiscardLog 禁用会话日志输出。
func WithDiscardLog() Option {
	return func(p *Parser) {
		p.log = logger.NewDiscardLogger()
	}
}

// WithExpressionValidation 开启后，计算列和WHERE中的字段引用也按普通列的规则绑定。
func WithExpressionValidation(enabled bool) Option {
	return func(p *Parser) {
		p.config.ValidateExpressions = enabled
	}
}

// WithCoveredTableNames 开启后，即使表的每次出现都带有别名，也允许使用"表名.字段"访问。
func WithCoveredTableNames(allowed bool) Option {
	return func(p *Parser) {
		p.config.AllowTableNameCoveredByAlias = allowed
	}
}

// WithMaxStatementLength 限制语句的最大字节数，0表示不限制。
func WithMaxStatementLength(n int) Option {
	return func(p *Parser) {
		if n >= 0 {
			p.config.MaxStatementLength = n
		}
	}
}

// WithConfig 使用完整配置。配置中的LogLevel非空时同时设置日志级别。
//
// 示例:
//
//	cfg, err := types.LoadConfig(file)
//	p := sqlquery.New(catalog, sqlquery.WithConfig(cfg))
func WithConfig(cfg types.Config) Option {
	return func(p *Parser) {
		p.config = cfg
		if cfg.LogLevel == "" {
			return
		}
		if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
			p.log.SetLevel(level)
		} else {
			p.log.Warn("ignoring log level: %v", err)
		}
	}
}
