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
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rulego/sqlquery/query"
	"github.com/rulego/sqlquery/rsql"
)

// expr-lang words that cannot be used as bare identifiers
var exprKeywords = map[string]struct{}{
	"and": {}, "or": {}, "not": {}, "in": {}, "matches": {}, "contains": {},
	"startsWith": {}, "endsWith": {}, "let": {}, "nil": {}, "true": {}, "false": {},
}

var functionNames = map[string]string{
	"LOWER":    "lower",
	"UPPER":    "upper",
	"TRIM":     "trim",
	"LENGTH":   "len",
	"ABS":      "abs",
	"CEIL":     "ceil",
	"FLOOR":    "floor",
	"ROUND":    "round",
	"COALESCE": "coalesce",
	"IFNULL":   "coalesce",
}

// renderer translates SQL expressions to expr-lang source.
type renderer struct {
	desc   *query.Descriptor
	params map[string]any
}

func (r *renderer) render(e rsql.Expression) (string, error) {
	switch e := e.(type) {
	case *rsql.ConstExpr:
		return renderConst(e), nil
	case *rsql.VariableExpr:
		return r.renderVariable(e)
	case *rsql.QueryParameterExpr:
		v, ok := r.params[e.Message]
		if !ok {
			return "", fmt.Errorf("no value for query parameter %s", e)
		}
		return renderValue(v)
	case *rsql.UnaryExpr:
		return r.renderUnary(e)
	case *rsql.BinaryExpr:
		return r.renderBinary(e)
	case *rsql.NAryExpr:
		return r.renderNAry(e)
	case *rsql.FunctionExpr:
		return r.renderFunction(e)
	case nil:
		return "", fmt.Errorf("missing expression")
	}
	return "", fmt.Errorf("unsupported expression %s", e)
}

func renderConst(c *rsql.ConstExpr) string {
	switch c.Token {
	case rsql.TokenNULL:
		return "nil"
	case rsql.TokenString:
		s, _ := c.Value.(string)
		return strconv.Quote(s)
	case rsql.TokenDate, rsql.TokenTime, rsql.TokenDateTime:
		// ISO text compares in chronological order
		t, _ := c.Value.(time.Time)
		switch c.Token {
		case rsql.TokenDate:
			return strconv.Quote(t.Format("2006-01-02"))
		case rsql.TokenTime:
			return strconv.Quote(t.Format("15:04:05"))
		}
		return strconv.Quote(t.Format("2006-01-02 15:04:05"))
	}
	if c.Literal != "" {
		return c.Literal
	}
	return fmt.Sprint(c.Value)
}

// formatFloat keeps a decimal point so that expr-lang does not read the value as
// an integer.
func formatFloat(v float64, bitSize int) string {
	s := strconv.FormatFloat(v, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// renderValue renders a Go value supplied for a query parameter.
func renderValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "nil", nil
	case string:
		return strconv.Quote(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	case float32:
		return formatFloat(float64(v), 32), nil
	case float64:
		return formatFloat(v, 64), nil
	case time.Time:
		return strconv.Quote(v.Format("2006-01-02 15:04:05")), nil
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			s, err := renderValue(item)
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	}
	return "", fmt.Errorf("unsupported parameter value of type %T", v)
}

// renderVariable renders a column reference. Bound fields are qualified with
// their table alias or name when the query has more than one table.
func (r *renderer) renderVariable(v *rsql.VariableExpr) (string, error) {
	if v.IsAsterisk() || v.IsTableAsterisk() {
		return "", fmt.Errorf("%s cannot be evaluated", v)
	}
	name := v.Name
	if v.Field != nil && r.desc != nil {
		name = v.Field.Name
		if ref, ok := r.desc.Table(v.TablePosition); ok && len(r.desc.Tables()) > 1 {
			name = ref.Name() + "." + v.Field.Name
		}
	}
	for _, part := range strings.Split(name, ".") {
		if _, reserved := exprKeywords[part]; reserved {
			return "", fmt.Errorf("field name %q cannot be used in a condition", part)
		}
	}
	return name, nil
}

func (r *renderer) renderUnary(e *rsql.UnaryExpr) (string, error) {
	arg, err := r.render(e.Arg)
	if err != nil {
		return "", err
	}
	switch e.Op {
	case rsql.TokenLParen:
		return "(" + arg + ")", nil
	case rsql.TokenMinus:
		return "-(" + arg + ")", nil
	case rsql.TokenPlus:
		return arg, nil
	case rsql.TokenTilde:
		return "bit_not(" + arg + ")", nil
	case rsql.TokenNOT:
		return "!(" + arg + ")", nil
	case rsql.TokenIsNull:
		return "(" + arg + " == nil)", nil
	case rsql.TokenIsNotNull:
		return "(" + arg + " != nil)", nil
	}
	return "", fmt.Errorf("unsupported unary operator %s", e.Op)
}

var infixOperators = map[rsql.TokenType]string{
	rsql.TokenAND:      "&&",
	rsql.TokenOR:       "||",
	rsql.TokenXOR:      "!=",
	rsql.TokenEQ:       "==",
	rsql.TokenNE:       "!=",
	rsql.TokenNE2:      "!=",
	rsql.TokenLT:       "<",
	rsql.TokenLE:       "<=",
	rsql.TokenGT:       ">",
	rsql.TokenGE:       ">=",
	rsql.TokenPlus:     "+",
	rsql.TokenMinus:    "-",
	rsql.TokenAsterisk: "*",
	rsql.TokenPercent:  "%",
}

var callOperators = map[rsql.TokenType]string{
	rsql.TokenLIKE:         "like_match",
	rsql.TokenNotLike:      "!like_match",
	rsql.TokenSimilarTo:    "similar_match",
	rsql.TokenNotSimilarTo: "!similar_match",
	rsql.TokenConcat:       "sql_concat",
	rsql.TokenSlash:        "sql_div",
	rsql.TokenAmpersand:    "bit_and",
	rsql.TokenPipe:         "bit_or",
	rsql.TokenShiftLeft:    "bit_shl",
	rsql.TokenShiftRight:   "bit_shr",
}

func (r *renderer) renderBinary(e *rsql.BinaryExpr) (string, error) {
	if e.IsAlias() {
		return "", fmt.Errorf("unexpected alias %s", e)
	}
	left, err := r.render(e.Left)
	if err != nil {
		return "", err
	}
	if e.Op == rsql.TokenIN {
		list, err := r.renderList(e.Right)
		if err != nil {
			return "", err
		}
		return "(" + left + " in " + list + ")", nil
	}
	right, err := r.render(e.Right)
	if err != nil {
		return "", err
	}
	if op, ok := infixOperators[e.Op]; ok {
		return "(" + left + " " + op + " " + right + ")", nil
	}
	if fn, ok := callOperators[e.Op]; ok {
		return fn + "(" + left + ", " + right + ")", nil
	}
	return "", fmt.Errorf("unsupported operator %s", e.Op)
}

// renderList renders the right side of IN as an array.
func (r *renderer) renderList(e rsql.Expression) (string, error) {
	var items []rsql.Expression
	switch e := e.(type) {
	case *rsql.NAryExpr:
		if e.IsBetween() {
			return "", fmt.Errorf("unsupported IN operand %s", e)
		}
		items = e.Args
	case *rsql.UnaryExpr:
		if e.Op != rsql.TokenLParen {
			return r.render(e)
		}
		items = []rsql.Expression{e.Arg}
	default:
		return r.render(e)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		s, err := r.render(item)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func (r *renderer) renderNAry(e *rsql.NAryExpr) (string, error) {
	if e.IsBetween() {
		subject, err := r.render(e.Args[0])
		if err != nil {
			return "", err
		}
		low, err := r.render(e.Args[1])
		if err != nil {
			return "", err
		}
		high, err := r.render(e.Args[2])
		if err != nil {
			return "", err
		}
		s := "(" + subject + " >= " + low + " && " + subject + " <= " + high + ")"
		if e.Op == rsql.TokenNotBetween {
			s = "!" + s
		}
		return s, nil
	}
	return r.renderList(e)
}

func (r *renderer) renderFunction(e *rsql.FunctionExpr) (string, error) {
	if e.Class() == rsql.ClassAggregation {
		return "", fmt.Errorf("aggregate function %s cannot be evaluated per row", e.Name)
	}
	name, ok := functionNames[strings.ToUpper(e.Name)]
	if !ok {
		return "", fmt.Errorf("unknown function %s, supported: %s", e.Name, supportedFunctions())
	}
	args := make([]string, e.Args.Len())
	for i, a := range e.Args.Args {
		s, err := r.render(a)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

func supportedFunctions() string {
	names := make([]string, 0, len(functionNames))
	for n := range functionNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
