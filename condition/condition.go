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

package condition

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/rulego/sqlquery/query"
	"github.com/rulego/sqlquery/rsql"
)

// Condition is a compiled row predicate.
type Condition interface {
	// Evaluate reports whether row satisfies the condition.
	Evaluate(row Row) (bool, error)
	// Source returns the expr-lang source the condition was compiled from.
	Source() string
}

// Row maps column names to values. Keys of the form "table.field" are also
// reachable as nested members, so both row["t.f"] and t.f work in conditions.
type Row map[string]any

// env builds the evaluation environment of the row.
func (r Row) env() map[string]any {
	env := make(map[string]any, len(r))
	for k, v := range r {
		env[k] = v
	}
	for k, v := range r {
		i := strings.IndexByte(k, '.')
		if i <= 0 {
			continue
		}
		table, field := k[:i], k[i+1:]
		nested, ok := env[table].(map[string]any)
		if !ok {
			if _, taken := env[table]; taken {
				continue
			}
			nested = make(map[string]any)
			env[table] = nested
		}
		nested[field] = v
	}
	return env
}

// ExprCondition is a condition compiled by expr-lang.
type ExprCondition struct {
	program  *vm.Program
	source   string
	patterns *patternCache
}

// NewExprCondition compiles an expr-lang expression producing a boolean.
// Names that are not present in the row evaluate to nil.
func NewExprCondition(expression string) (*ExprCondition, error) {
	patterns := newPatternCache()
	options := append(functions(patterns), expr.AllowUndefinedVariables(), expr.AsBool())
	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	return &ExprCondition{program: program, source: expression, patterns: patterns}, nil
}

// Evaluate implements Condition.
func (c *ExprCondition) Evaluate(row Row) (bool, error) {
	result, err := expr.Run(c.program, row.env())
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q produced %T", c.source, result)
	}
	return b, nil
}

// Source implements Condition.
func (c *ExprCondition) Source() string {
	return c.source
}

// Option configures Compile.
type Option func(*renderer)

// WithParams supplies values for :name and [message] query parameters, keyed by
// name or message text.
func WithParams(params map[string]any) Option {
	return func(r *renderer) {
		for k, v := range params {
			r.params[k] = v
		}
	}
}

// Compile compiles the WHERE expression of desc. A query without WHERE yields
// a condition that accepts every row.
func Compile(desc *query.Descriptor, opts ...Option) (*ExprCondition, error) {
	if desc == nil {
		return nil, fmt.Errorf("no query")
	}
	if desc.Where() == nil {
		return NewExprCondition("true")
	}
	return compile(desc, desc.Where(), opts)
}

// CompileExpression compiles a standalone expression. Variables are used as
// written.
func CompileExpression(e rsql.Expression, opts ...Option) (*ExprCondition, error) {
	return compile(nil, e, opts)
}

func compile(desc *query.Descriptor, e rsql.Expression, opts []Option) (*ExprCondition, error) {
	r := &renderer{desc: desc, params: make(map[string]any)}
	for _, opt := range opts {
		opt(r)
	}
	source, err := r.render(e)
	if err != nil {
		return nil, fmt.Errorf("render condition %s: %w", e, err)
	}
	cond, err := NewExprCondition(source)
	if err != nil {
		return nil, fmt.Errorf("compile condition %s: %w", e, err)
	}
	return cond, nil
}
