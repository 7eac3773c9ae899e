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
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the category of a ParseError.
type ErrorKind int

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindEmptyStatement
	ErrorKindSyntax
	ErrorKindReservedKeyword
	ErrorKindLexical
	ErrorKindNumericRange
	ErrorKindTableNotFound
	ErrorKindUnknownColumn
	ErrorKindAmbiguousReference
	ErrorKindInvalidAlias
	ErrorKindInvalidColumnDefinition
	ErrorKindEmptyTableListForAsterisk
	ErrorKindOrderByPositionOutOfRange
	ErrorKindOrderByColumnNotFound
	ErrorKindUnsupportedStatement
	ErrorKindImplementation
)

var errorKindNames = map[ErrorKind]string{
	ErrorKindNone:                      "NO_ERROR",
	ErrorKindEmptyStatement:            "EMPTY_STATEMENT",
	ErrorKindSyntax:                    "SYNTAX_ERROR",
	ErrorKindReservedKeyword:           "RESERVED_KEYWORD",
	ErrorKindLexical:                   "LEXICAL_ERROR",
	ErrorKindNumericRange:              "NUMERIC_RANGE",
	ErrorKindTableNotFound:             "TABLE_NOT_FOUND",
	ErrorKindUnknownColumn:             "UNKNOWN_COLUMN",
	ErrorKindAmbiguousReference:        "AMBIGUOUS_REFERENCE",
	ErrorKindInvalidAlias:              "INVALID_ALIAS",
	ErrorKindInvalidColumnDefinition:   "INVALID_COLUMN_DEFINITION",
	ErrorKindEmptyTableListForAsterisk: "EMPTY_TABLE_LIST_FOR_ASTERISK",
	ErrorKindOrderByPositionOutOfRange: "ORDER_BY_POSITION_OUT_OF_RANGE",
	ErrorKindOrderByColumnNotFound:     "ORDER_BY_COLUMN_NOT_FOUND",
	ErrorKindUnsupportedStatement:      "UNSUPPORTED_STATEMENT",
	ErrorKindImplementation:            "IMPLEMENTATION_ERROR",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "UNKNOWN_ERROR"
}

// User-facing error types. An empty type means "no error".
const (
	TypeSyntaxError         = "Syntax Error"
	TypeError               = "Error"
	TypeImplementationError = "Implementation Error"
)

// ParseError describes why a statement could not be turned into a result.
type ParseError struct {
	Kind ErrorKind
	// Type is "Syntax Error", "Error" or "Implementation Error".
	Type    string
	Message string
	// Token is the offending token text, if any.
	Token string
	// Position is the byte offset of Token in the statement, -1 when unknown.
	Position int
	Line     int
	Column   int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))
	if e.Line > 0 && e.Column > 0 {
		builder.WriteString(fmt.Sprintf(" at line %d, column %d", e.Line, e.Column))
	} else if e.Position >= 0 {
		builder.WriteString(fmt.Sprintf(" at position %d", e.Position))
	}
	if e.Token != "" {
		builder.WriteString(fmt.Sprintf(" (found '%s')", e.Token))
	}
	return builder.String()
}

// IsEmpty reports whether e represents "no error".
func (e *ParseError) IsEmpty() bool {
	return e == nil || e.Type == ""
}

func newError(kind ErrorKind, typ, message, token string, position int) *ParseError {
	return &ParseError{Kind: kind, Type: typ, Message: message, Token: token, Position: position}
}

// NewError creates an error of type "Error"; binder failures use it.
func NewError(kind ErrorKind, message, token string, position int) *ParseError {
	return newError(kind, TypeError, message, token, position)
}

// EmptyStatementError is reported for empty and whitespace-only statements.
func EmptyStatementError() *ParseError {
	return newError(ErrorKindEmptyStatement, TypeError, "No query statement specified", "", -1)
}

// NewImplementationError reports a violated internal invariant.
func NewImplementationError(message string) *ParseError {
	return newError(ErrorKindImplementation, TypeImplementationError, message, "", -1)
}

// errorAt builds an error located at tok.
func errorAt(kind ErrorKind, typ, message string, tok Token) *ParseError {
	err := newError(kind, typ, message, tok.Value, tok.Pos)
	err.Line, err.Column = tok.Line, tok.Column
	if tok.Type == TokenEOF {
		err.Token = ""
	}
	return err
}

// SyntaxErrorAt reports an unexpected token. Reserved words get a dedicated message.
func SyntaxErrorAt(tok Token, expected string) *ParseError {
	if !tok.Quoted && tok.Type != TokenEOF && tok.Type != TokenString && IsReservedKeyword(tok.Value) {
		return errorAt(ErrorKindReservedKeyword, TypeSyntaxError,
			fmt.Sprintf("\"%s\" is a reserved keyword", tok.Value), tok)
	}
	msg := "syntax error"
	if tok.Type == TokenEOF {
		msg += ", unexpected end of statement"
	} else {
		msg += fmt.Sprintf(" near \"%s\"", tok.Value)
	}
	if expected != "" {
		msg += ", expecting " + expected
	}
	return errorAt(ErrorKindSyntax, TypeSyntaxError, msg, tok)
}

// LexicalErrorAt reports text the scanner could not tokenize.
func LexicalErrorAt(tok Token) *ParseError {
	return errorAt(ErrorKindLexical, TypeError, fmt.Sprintf("error near \"%s\"", tok.Value), tok)
}

// IsKind reports whether err is a *ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// Reporter keeps the error of a parse. The first error wins; later reports are
// ignored unless they are made with Override.
type Reporter struct {
	err *ParseError
}

// Report records err unless an error is already recorded, and returns the
// recorded error.
func (r *Reporter) Report(err *ParseError) *ParseError {
	if r.err.IsEmpty() {
		r.err = err
	}
	return r.err
}

// Override records err even if another error was reported before.
func (r *Reporter) Override(err *ParseError) *ParseError {
	r.err = err
	return r.err
}

// Err returns the recorded error, or nil.
func (r *Reporter) Err() *ParseError {
	if r.err.IsEmpty() {
		return nil
	}
	return r.err
}

// HasError reports whether an error was recorded.
func (r *Reporter) HasError() bool {
	return !r.err.IsEmpty()
}

// Reset forgets the recorded error.
func (r *Reporter) Reset() {
	r.err = nil
}

// FormatErrorContext returns the input around position with a caret under it.
func FormatErrorContext(input string, position int, contextLength int) string {
	if position < 0 || position > len(input) {
		return ""
	}
	start := position - contextLength
	if start < 0 {
		start = 0
	}
	end := position + contextLength
	if end > len(input) {
		end = len(input)
	}
	context := input[start:end]
	pointer := strings.Repeat(" ", position-start) + "^"
	return fmt.Sprintf("%s\n%s", context, pointer)
}
