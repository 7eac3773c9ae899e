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
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"

	"github.com/rulego/sqlquery/utils/cast"
)

// functions returns the helpers that rendered conditions call. SIMILAR TO
// patterns are compiled through patterns.
func functions(patterns *patternCache) []expr.Option {
	return []expr.Option{
		expr.Function("like_match", func(params ...any) (any, error) {
			text, pattern, ok, err := stringPair("like_match", params)
			if err != nil || !ok {
				return false, err
			}
			return matchesLikePattern(text, pattern), nil
		}),
		expr.Function("similar_match", func(params ...any) (any, error) {
			text, pattern, ok, err := stringPair("similar_match", params)
			if err != nil || !ok {
				return false, err
			}
			re, err := patterns.get(pattern)
			if err != nil {
				return false, err
			}
			return re.MatchString(text), nil
		}),
		expr.Function("sql_concat", func(params ...any) (any, error) {
			var sb strings.Builder
			for _, p := range params {
				if p == nil {
					return nil, nil
				}
				sb.WriteString(cast.ToString(p))
			}
			return sb.String(), nil
		}),
		expr.Function("sql_div", divide),
		expr.Function("bit_and", intOp(func(a, b int64) int64 { return a & b })),
		expr.Function("bit_or", intOp(func(a, b int64) int64 { return a | b })),
		expr.Function("bit_shl", intOp(func(a, b int64) int64 { return a << uint64(b) })),
		expr.Function("bit_shr", intOp(func(a, b int64) int64 { return a >> uint64(b) })),
		expr.Function("bit_not", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("bit_not requires 1 parameter")
			}
			if params[0] == nil {
				return nil, nil
			}
			v, err := cast.ToInt64(params[0])
			if err != nil {
				return nil, err
			}
			return ^v, nil
		}),
		expr.Function("coalesce", func(params ...any) (any, error) {
			for _, p := range params {
				if p != nil {
					return p, nil
				}
			}
			return nil, nil
		}),
	}
}

// stringPair converts the two parameters of a pattern function. ok is false when
// either side is NULL.
func stringPair(name string, params []any) (text, pattern string, ok bool, err error) {
	if len(params) != 2 {
		return "", "", false, fmt.Errorf("%s requires 2 parameters", name)
	}
	if params[0] == nil || params[1] == nil {
		return "", "", false, nil
	}
	return cast.ToString(params[0]), cast.ToString(params[1]), true, nil
}

func intOp(fn func(a, b int64) int64) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("bit operation requires 2 parameters")
		}
		if params[0] == nil || params[1] == nil {
			return nil, nil
		}
		a, err := cast.ToInt64(params[0])
		if err != nil {
			return nil, err
		}
		b, err := cast.ToInt64(params[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b), nil
	}
}

// matchesLikePattern matches text against a LIKE pattern where % matches any
// run of characters and _ matches exactly one.
func matchesLikePattern(text, pattern string) bool {
	t, p := []rune(text), []rune(pattern)
	ti, pi := 0, 0
	// position of the last % and the text index it was tried at
	star, mark := -1, 0
	for ti < len(t) {
		switch {
		case pi < len(p) && (p[pi] == '_' || p[pi] == t[ti]) && p[pi] != '%':
			ti++
			pi++
		case pi < len(p) && p[pi] == '%':
			star, mark = pi, ti
			pi++
		case star >= 0:
			mark++
			ti = mark
			pi = star + 1
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '%' {
		pi++
	}
	return pi == len(p)
}

// divide implements "/". Two integers divide as integers truncated toward zero;
// any other operands divide as floats.
func divide(params ...any) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("sql_div requires 2 parameters")
	}
	if params[0] == nil || params[1] == nil {
		return nil, nil
	}
	if isInteger(params[0]) && isInteger(params[1]) {
		b, err := cast.ToInt64(params[1])
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, fmt.Errorf("integer division by zero")
		}
		a, err := cast.ToInt64(params[0])
		if err != nil {
			return nil, err
		}
		return a / b, nil
	}
	a, err := cast.ToFloat(params[0])
	if err != nil {
		return nil, err
	}
	b, err := cast.ToFloat(params[1])
	if err != nil {
		return nil, err
	}
	return a / b, nil
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// maxCachedPatterns bounds the compiled SIMILAR TO patterns kept per condition.
const maxCachedPatterns = 64

// patternCache holds the compiled SIMILAR TO patterns of one condition. Once
// full, further patterns are compiled on every use.
type patternCache struct {
	mu      sync.Mutex
	entries map[string]*regexp.Regexp
}

func newPatternCache() *patternCache {
	return &patternCache{entries: make(map[string]*regexp.Regexp)}
}

func (c *patternCache) get(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	re, ok := c.entries[pattern]
	c.mu.Unlock()
	if ok {
		return re, nil
	}
	re, err := similarRegexp(pattern)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if len(c.entries) < maxCachedPatterns {
		c.entries[pattern] = re
	}
	c.mu.Unlock()
	return re, nil
}

func (c *patternCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// similarRegexp translates a SIMILAR TO pattern into an anchored regular
// expression: % and _ become .* and . and the regular expression operators
// | * + ? ( ) [ ] { } keep their meaning.
func similarRegexp(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^(?:")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		case '|', '*', '+', '?', '(', ')', '[', ']', '{', '}':
			sb.WriteRune(r)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(")$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid SIMILAR TO pattern %q: %w", pattern, err)
	}
	return re, nil
}
