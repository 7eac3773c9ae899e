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

package rsql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rulego/sqlquery/schema"
)

// ExprClass groups expression nodes by their role.
type ExprClass int

const (
	ClassUnknown ExprClass = iota
	ClassUnary
	ClassArithm
	ClassLogical
	ClassRelational
	// ClassSpecialBinary carries "expr [AS] alias" and "table [AS] alias" pairs
	// until the binder decomposes them.
	ClassSpecialBinary
	ClassConst
	ClassVariable
	ClassFunction
	ClassAggregation
	ClassTableList
	ClassArgumentList
	ClassQueryParameter
)

var classNames = map[ExprClass]string{
	ClassUnary:          "Unary",
	ClassArithm:         "Arithm",
	ClassLogical:        "Logical",
	ClassRelational:     "Relational",
	ClassSpecialBinary:  "SpecialBinary",
	ClassConst:          "Const",
	ClassVariable:       "Variable",
	ClassFunction:       "Function",
	ClassAggregation:    "Aggregation",
	ClassTableList:      "TableList",
	ClassArgumentList:   "ArgumentList",
	ClassQueryParameter: "QueryParameter",
}

func (c ExprClass) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Expression is a node of the expression tree. The concrete types are
// *ConstExpr, *VariableExpr, *QueryParameterExpr, *UnaryExpr, *BinaryExpr,
// *NAryExpr and *FunctionExpr; the set is closed.
//
// Every node owns its children exclusively.
type Expression interface {
	Class() ExprClass
	// String renders the expression as SQL text.
	String() string
	exprNode()
}

// IntegerKind records the narrowest integral type holding an integer constant.
type IntegerKind int

const (
	NotInteger IntegerKind = iota
	Int32
	Uint32
	Int64
)

func (k IntegerKind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	}
	return ""
}

// ConstExpr is a literal. Token is one of TokenNULL, TokenString, TokenInteger,
// TokenReal, TokenDate, TokenTime or TokenDateTime. Value holds nil, string,
// int32/uint32/int64, float64 or time.Time respectively.
type ConstExpr struct {
	Token   TokenType
	Value   any
	IntKind IntegerKind
	// Literal is the source text of numeric constants.
	Literal string
}

// ClassifyInteger picks the narrowest of int32, uint32 and int64 that holds v.
func ClassifyInteger(v uint64) (any, IntegerKind, bool) {
	switch {
	case v <= 1<<31-1:
		return int32(v), Int32, true
	case v <= 1<<32-1:
		return uint32(v), Uint32, true
	case v <= 1<<63-1:
		return int64(v), Int64, true
	}
	return nil, NotInteger, false
}

// NewIntegerConst parses a decimal integer literal. Literals larger than the
// int64 range are rejected.
func NewIntegerConst(literal string) (*ConstExpr, error) {
	u, err := strconv.ParseUint(literal, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("integer constant %s is out of range", literal)
	}
	v, kind, ok := ClassifyInteger(u)
	if !ok {
		return nil, fmt.Errorf("integer constant %s is out of range", literal)
	}
	return &ConstExpr{Token: TokenInteger, Value: v, IntKind: kind, Literal: literal}, nil
}

// NewRealConst parses a real literal.
func NewRealConst(literal string) (*ConstExpr, error) {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid real constant %s", literal)
	}
	return &ConstExpr{Token: TokenReal, Value: f, Literal: literal}, nil
}

// NewStringConst creates a character string literal.
func NewStringConst(s string) *ConstExpr {
	return &ConstExpr{Token: TokenString, Value: s}
}

// NewNullConst creates the NULL literal.
func NewNullConst() *ConstExpr {
	return &ConstExpr{Token: TokenNULL}
}

var dateTimeLayouts = map[TokenType][]string{
	TokenDate:     {"2006-01-02"},
	TokenTime:     {"15:04:05", "15:04"},
	TokenDateTime: {"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05", "2006-01-02T15:04"},
}

// NewDateTimeConst parses the text of a #...# literal of the given token type.
func NewDateTimeConst(tok TokenType, text string) (*ConstExpr, error) {
	for _, layout := range dateTimeLayouts[tok] {
		if t, err := time.Parse(layout, text); err == nil {
			return &ConstExpr{Token: tok, Value: t, Literal: text}, nil
		}
	}
	return nil, fmt.Errorf("invalid %s #%s#", tok, text)
}

func (*ConstExpr) Class() ExprClass { return ClassConst }
func (*ConstExpr) exprNode()        {}

// FieldType infers the schema type of the constant.
func (e *ConstExpr) FieldType() schema.FieldType {
	switch e.Token {
	case TokenNULL:
		return schema.Null
	case TokenInteger:
		if e.IntKind == Int64 {
			return schema.BigInteger
		}
		var v int64
		switch n := e.Value.(type) {
		case int32:
			v = int64(n)
		case uint32:
			v = int64(n)
		}
		switch {
		case v <= 0xff && v > -0x80:
			return schema.Byte
		case v <= 0xffff && v > -0x8000:
			return schema.ShortInteger
		}
		return schema.Integer
	case TokenString:
		return schema.Text
	case TokenReal:
		return schema.Double
	case TokenDate:
		return schema.Date
	case TokenDateTime:
		return schema.DateTime
	case TokenTime:
		return schema.Time
	}
	return schema.InvalidType
}

func (e *ConstExpr) String() string {
	switch e.Token {
	case TokenNULL:
		return "NULL"
	case TokenString:
		s, _ := e.Value.(string)
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	case TokenDate, TokenTime, TokenDateTime:
		return "#" + e.Literal + "#"
	case TokenInteger, TokenReal:
		if e.Literal != "" {
			return e.Literal
		}
	}
	return fmt.Sprint(e.Value)
}

// VariableExpr is a name: "field", "table.field", "table.*" or "*".
// The binding fields are set by the binder.
type VariableExpr struct {
	Name string
	Pos  int

	// Field is the bound field, nil until bound.
	Field *schema.Field
	// TablePosition is the position in the FROM list Field was bound to, -1 if unknown.
	TablePosition int
	// AsteriskTable is set for a bound "table.*".
	AsteriskTable *schema.TableSchema
}

// NewVariable creates an unbound variable.
func NewVariable(name string, pos int) *VariableExpr {
	return &VariableExpr{Name: name, Pos: pos, TablePosition: -1}
}

func (*VariableExpr) Class() ExprClass { return ClassVariable }
func (*VariableExpr) exprNode()        {}
func (e *VariableExpr) String() string { return e.Name }

// Split returns the qualifier and field part of the name. The qualifier is empty
// for unqualified names.
func (e *VariableExpr) Split() (qualifier, field string) {
	if i := strings.IndexByte(e.Name, '.'); i > 0 {
		return e.Name[:i], e.Name[i+1:]
	}
	return "", e.Name
}

// IsAsterisk reports whether the variable is "*".
func (e *VariableExpr) IsAsterisk() bool {
	return e.Name == "*"
}

// IsTableAsterisk reports whether the variable has the "table.*" form.
func (e *VariableExpr) IsTableAsterisk() bool {
	return len(e.Name) > 2 && strings.HasSuffix(e.Name, ".*")
}

// QueryParameterExpr is a parameter whose value is supplied at execution time.
type QueryParameterExpr struct {
	// Message is the parameter name or the prompt text of a [message] parameter.
	Message string
	// Bracketed is set for the [message] form.
	Bracketed bool
	Pos       int
	Type      schema.FieldType
}

func (*QueryParameterExpr) Class() ExprClass { return ClassQueryParameter }
func (*QueryParameterExpr) exprNode()        {}

func (e *QueryParameterExpr) String() string {
	if e.Bracketed {
		return "[" + e.Message + "]"
	}
	return ":" + e.Message
}

// UnaryExpr is a prefix or postfix operator applied to one operand. Op is one of
// TokenMinus, TokenPlus, TokenTilde, TokenNOT, TokenLParen (parentheses),
// TokenIsNull or TokenIsNotNull.
type UnaryExpr struct {
	Op  TokenType
	Arg Expression
}

func (*UnaryExpr) Class() ExprClass { return ClassUnary }
func (*UnaryExpr) exprNode()        {}

func (e *UnaryExpr) String() string {
	arg := exprString(e.Arg)
	switch e.Op {
	case TokenLParen:
		return "(" + arg + ")"
	case TokenNOT:
		return "NOT " + arg
	case TokenIsNull:
		return arg + " IS NULL"
	case TokenIsNotNull:
		return arg + " IS NOT NULL"
	}
	if strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "+") {
		// "--" would start a comment
		return e.Op.String() + " " + arg
	}
	return e.Op.String() + arg
}

// BinaryExpr is an infix operator. For ClassSpecialBinary nodes Op is TokenAS or
// TokenNone (alias written without AS) and Right is a *VariableExpr naming the alias.
type BinaryExpr struct {
	class ExprClass
	Op    TokenType
	Left  Expression
	Right Expression
}

// NewBinary creates a binary node, deriving its class from op.
func NewBinary(left Expression, op TokenType, right Expression) *BinaryExpr {
	return &BinaryExpr{class: binaryClass(op), Op: op, Left: left, Right: right}
}

// NewAlias creates the special binary node pairing expr with an alias.
func NewAlias(expr Expression, withAS bool, alias Expression) *BinaryExpr {
	op := TokenNone
	if withAS {
		op = TokenAS
	}
	return &BinaryExpr{class: ClassSpecialBinary, Op: op, Left: expr, Right: alias}
}

func binaryClass(op TokenType) ExprClass {
	switch op {
	case TokenAND, TokenOR, TokenXOR:
		return ClassLogical
	case TokenEQ, TokenNE, TokenNE2, TokenLT, TokenLE, TokenGT, TokenGE,
		TokenLIKE, TokenNotLike, TokenIN, TokenSimilarTo, TokenNotSimilarTo:
		return ClassRelational
	}
	return ClassArithm
}

func (e *BinaryExpr) Class() ExprClass { return e.class }
func (*BinaryExpr) exprNode()          {}

// IsAlias reports whether e is an "[AS] alias" wrapper.
func (e *BinaryExpr) IsAlias() bool {
	return e.class == ClassSpecialBinary
}

// DecomposeAlias consumes an alias wrapper and returns the wrapped expression and
// the alias node. The wrapper is left empty.
func (e *BinaryExpr) DecomposeAlias() (Expression, Expression) {
	inner, alias := e.Left, e.Right
	e.Left, e.Right = nil, nil
	return inner, alias
}

func (e *BinaryExpr) String() string {
	if e.class == ClassSpecialBinary {
		if e.Op == TokenAS {
			return exprString(e.Left) + " AS " + exprString(e.Right)
		}
		return exprString(e.Left) + " " + exprString(e.Right)
	}
	return exprString(e.Left) + " " + e.Op.String() + " " + exprString(e.Right)
}

// NAryExpr is an ordered list of expressions: an argument list, a table list, or
// a [NOT] BETWEEN node whose Args are exactly subject, low and high.
type NAryExpr struct {
	class ExprClass
	// Op is TokenBETWEEN or TokenNotBetween for between nodes, TokenLParen for a
	// parenthesized value list (the right side of IN), TokenNone otherwise.
	Op   TokenType
	Args []Expression
}

// NewArgumentList creates an argument list holding args.
func NewArgumentList(args ...Expression) *NAryExpr {
	return &NAryExpr{class: ClassArgumentList, Args: args}
}

// NewTableList creates an empty FROM list.
func NewTableList() *NAryExpr {
	return &NAryExpr{class: ClassTableList}
}

// NewBetween creates a [NOT] BETWEEN node.
func NewBetween(not bool, subject, low, high Expression) *NAryExpr {
	op := TokenBETWEEN
	if not {
		op = TokenNotBetween
	}
	return &NAryExpr{class: ClassRelational, Op: op, Args: []Expression{subject, low, high}}
}

func (e *NAryExpr) Class() ExprClass { return e.class }
func (*NAryExpr) exprNode()          {}

// Add appends expr.
func (e *NAryExpr) Add(expr Expression) {
	e.Args = append(e.Args, expr)
}

// Len returns the number of items.
func (e *NAryExpr) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Args)
}

// Arg returns item i.
func (e *NAryExpr) Arg(i int) Expression {
	return e.Args[i]
}

// IsBetween reports whether e is a [NOT] BETWEEN node.
func (e *NAryExpr) IsBetween() bool {
	return e.Op == TokenBETWEEN || e.Op == TokenNotBetween
}

// TakeArgs moves the items out of e, leaving it empty.
func (e *NAryExpr) TakeArgs() []Expression {
	if e == nil {
		return nil
	}
	args := e.Args
	e.Args = nil
	return args
}

func (e *NAryExpr) String() string {
	if e.IsBetween() && len(e.Args) == 3 {
		return exprString(e.Args[0]) + " " + e.Op.String() + " " +
			exprString(e.Args[1]) + " AND " + exprString(e.Args[2])
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = exprString(a)
	}
	s := strings.Join(parts, ", ")
	if e.class == ClassArgumentList && e.Op == TokenLParen {
		return "(" + s + ")"
	}
	return s
}

// FunctionExpr is a call name(args). Calls of built-in aggregates have ClassAggregation.
type FunctionExpr struct {
	Name string
	Args *NAryExpr
	Pos  int
}

// NewFunction creates a call node.
func NewFunction(name string, args *NAryExpr, pos int) *FunctionExpr {
	if args == nil {
		args = NewArgumentList()
	}
	return &FunctionExpr{Name: name, Args: args, Pos: pos}
}

func (e *FunctionExpr) Class() ExprClass {
	if IsAggregateFunction(e.Name) {
		return ClassAggregation
	}
	return ClassFunction
}

func (*FunctionExpr) exprNode() {}

func (e *FunctionExpr) String() string {
	return e.Name + "(" + e.Args.String() + ")"
}

func exprString(e Expression) string {
	if e == nil {
		return "<NULL>"
	}
	return e.String()
}

// Walk visits expr and its descendants depth-first, stopping the descent below a
// node when fn returns false.
func Walk(expr Expression, fn func(Expression) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	switch e := expr.(type) {
	case *UnaryExpr:
		Walk(e.Arg, fn)
	case *BinaryExpr:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case *NAryExpr:
		for _, a := range e.Args {
			Walk(a, fn)
		}
	case *FunctionExpr:
		Walk(e.Args, fn)
	}
}

// QueryParameters collects the query parameters of expr in textual order.
func QueryParameters(expr Expression) []*QueryParameterExpr {
	var params []*QueryParameterExpr
	Walk(expr, func(e Expression) bool {
		if p, ok := e.(*QueryParameterExpr); ok {
			params = append(params, p)
		}
		return true
	})
	return params
}

// Variables collects the variables of expr in textual order.
func Variables(expr Expression) []*VariableExpr {
	var vars []*VariableExpr
	Walk(expr, func(e Expression) bool {
		if v, ok := e.(*VariableExpr); ok {
			vars = append(vars, v)
		}
		return true
	})
	return vars
}
