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
	"strconv"

	"github.com/rulego/sqlquery/schema"
)

// Operation is the kind of a parsed statement.
type Operation int

const (
	OpNone Operation = iota
	OpError
	OpCreateTable
	OpAlterTable
	OpSelect
	OpInsert
	OpUpdate
	OpDelete
)

var operationNames = [...]string{
	OpNone:        "None",
	OpError:       "Error",
	OpCreateTable: "CreateTable",
	OpAlterTable:  "AlterTable",
	OpSelect:      "Select",
	OpInsert:      "Insert",
	OpUpdate:      "Update",
	OpDelete:      "Delete",
}

func (o Operation) String() string {
	if o < 0 || int(o) >= len(operationNames) {
		return "Unknown"
	}
	return operationNames[o]
}

// Statement is the result of the grammar for one SQL statement.
type Statement interface {
	Operation() Operation
	statementNode()
}

// SelectStatement holds the syntactic parts of a SELECT before binding.
// Columns and Tables are nil when the clause is absent.
type SelectStatement struct {
	// Columns is an argument list of column items. Items are expressions,
	// "*" / "table.*" variables, or alias wrappers (see BinaryExpr.IsAlias).
	Columns *NAryExpr
	// Tables is a table list of variables or "table [AS] alias" wrappers.
	Tables  *NAryExpr
	Options *SelectOptions
}

func (*SelectStatement) Operation() Operation { return OpSelect }
func (*SelectStatement) statementNode()       {}

// SelectOptions are the clauses following FROM.
type SelectOptions struct {
	Where Expression
	// OrderBy lists the ORDER BY items in the order they were written.
	OrderBy []OrderByItem
}

// OrderByItem is one ORDER BY entry: a name ("field", "alias" or "table.field")
// or a 1-based column position.
type OrderByItem struct {
	Name       string
	Position   int
	ByPosition bool
	Ascending  bool
	Pos        int
}

func (o OrderByItem) String() string {
	s := o.Name
	if o.ByPosition {
		s = strconv.Itoa(o.Position)
	}
	if !o.Ascending {
		s += " DESC"
	}
	return s
}

// CreateTableStatement carries the table defined by CREATE TABLE.
type CreateTableStatement struct {
	Table *schema.TableSchema
}

func (*CreateTableStatement) Operation() Operation { return OpCreateTable }
func (*CreateTableStatement) statementNode()       {}

// UnsupportedStatement is a recognized statement kind without a builder.
type UnsupportedStatement struct {
	Op      Operation
	Keyword Token
}

func (s *UnsupportedStatement) Operation() Operation { return s.Op }
func (*UnsupportedStatement) statementNode()         {}
