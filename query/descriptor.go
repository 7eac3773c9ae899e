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

// Package query holds the bound form of a SELECT statement.
package query

import (
	"fmt"
	"strings"

	"github.com/rulego/sqlquery/rsql"
	"github.com/rulego/sqlquery/schema"
)

// TableRef is one entry of the FROM list.
type TableRef struct {
	Table *schema.TableSchema
	Alias string
}

// Name returns the alias when present, otherwise the table name.
func (r TableRef) Name() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Table.Name
}

// ColumnKind tells what an output column stands for.
type ColumnKind int

const (
	// ColumnField is a field of a bound table.
	ColumnField ColumnKind = iota
	// ColumnAsterisk is "*", all fields of all tables.
	ColumnAsterisk
	// ColumnTableAsterisk is "table.*".
	ColumnTableAsterisk
	// ColumnExpression is a computed expression.
	ColumnExpression
)

func (k ColumnKind) String() string {
	switch k {
	case ColumnField:
		return "Field"
	case ColumnAsterisk:
		return "Asterisk"
	case ColumnTableAsterisk:
		return "TableAsterisk"
	case ColumnExpression:
		return "Expression"
	}
	return "Unknown"
}

// Column is an output column of the query.
type Column struct {
	Kind ColumnKind
	// Field is set for ColumnField.
	Field *schema.Field
	// Table is the table of a ColumnTableAsterisk or ColumnField column.
	Table *schema.TableSchema
	// TablePosition is the FROM position the column is bound to, -1 when the
	// column is not bound to one table.
	TablePosition int
	// Expr is the column as written; a *rsql.VariableExpr for fields and asterisks.
	Expr  rsql.Expression
	Alias string
}

// Name returns the field name of field columns and the SQL text of other columns.
func (c *Column) Name() string {
	switch c.Kind {
	case ColumnField:
		return c.Field.Name
	case ColumnAsterisk:
		return "*"
	case ColumnTableAsterisk:
		return c.Table.Name + ".*"
	}
	if c.Expr == nil {
		return ""
	}
	return c.Expr.String()
}

// AliasOrName returns the alias, or Name when the column has none.
func (c *Column) AliasOrName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name()
}

// IsAsterisk reports whether the column is "*" or "table.*".
func (c *Column) IsAsterisk() bool {
	return c.Kind == ColumnAsterisk || c.Kind == ColumnTableAsterisk
}

// OrderByKind tells how an ORDER BY entry was resolved.
type OrderByKind int

const (
	// OrderByColumn refers to an output column by its alias or name.
	OrderByColumn OrderByKind = iota
	// OrderByPosition refers to an output column by its 1-based position.
	OrderByPosition
	// OrderByField refers to a field of a bound table that is not an output column.
	OrderByField
)

func (k OrderByKind) String() string {
	switch k {
	case OrderByColumn:
		return "Column"
	case OrderByPosition:
		return "Position"
	case OrderByField:
		return "Field"
	}
	return "Unknown"
}

// OrderBy is one sorting entry.
type OrderBy struct {
	Kind OrderByKind
	// Column is the 0-based output column index for OrderByColumn and
	// OrderByPosition entries, -1 otherwise.
	Column int
	// Position is the 1-based position as written for OrderByPosition entries.
	Position int
	// Field and TablePosition are set for OrderByField entries. A position that
	// lands on a field of an asterisk is an OrderByField entry keeping Position.
	Field         *schema.Field
	TablePosition int
	Ascending     bool
}

// Descriptor is a SELECT statement bound against a catalogue.
type Descriptor struct {
	tables  []TableRef
	master  *schema.TableSchema
	columns []*Column
	where   rsql.Expression
	orderBy []OrderBy
}

// New creates an empty descriptor.
func New() *Descriptor {
	return &Descriptor{}
}

// AddTable appends a FROM entry and returns its position.
func (d *Descriptor) AddTable(table *schema.TableSchema, alias string) int {
	d.tables = append(d.tables, TableRef{Table: table, Alias: alias})
	return len(d.tables) - 1
}

// Tables returns the FROM entries in the order they were written.
func (d *Descriptor) Tables() []TableRef {
	return d.tables
}

// Table returns the FROM entry at position i.
func (d *Descriptor) Table(i int) (TableRef, bool) {
	if i < 0 || i >= len(d.tables) {
		return TableRef{}, false
	}
	return d.tables[i], true
}

// MasterTable returns the table of a single-table query, or nil.
func (d *Descriptor) MasterTable() *schema.TableSchema {
	return d.master
}

// SetMasterTable sets the master table.
func (d *Descriptor) SetMasterTable(t *schema.TableSchema) {
	d.master = t
}

// TablePositions returns the FROM positions of the table called name.
func (d *Descriptor) TablePositions(name string) []int {
	var positions []int
	for i, ref := range d.tables {
		if strings.EqualFold(ref.Table.Name, name) {
			positions = append(positions, i)
		}
	}
	return positions
}

// TablePositionForAlias returns the position of the entry aliased alias, or -1.
func (d *Descriptor) TablePositionForAlias(alias string) int {
	for i, ref := range d.tables {
		if ref.Alias != "" && strings.EqualFold(ref.Alias, alias) {
			return i
		}
	}
	return -1
}

// AddColumn appends an output column and returns its index.
func (d *Descriptor) AddColumn(c *Column) int {
	d.columns = append(d.columns, c)
	return len(d.columns) - 1
}

// Columns returns the output columns in order.
func (d *Descriptor) Columns() []*Column {
	return d.columns
}

// Column returns the output column at index i, or nil.
func (d *Descriptor) Column(i int) *Column {
	if i < 0 || i >= len(d.columns) {
		return nil
	}
	return d.columns[i]
}

// ExpandedColumn is one entry of the output list with asterisks expanded.
type ExpandedColumn struct {
	// Column is the index of the output column the entry comes from.
	Column int
	// Field and TablePosition are set when the entry comes from an asterisk.
	Field         *schema.Field
	TablePosition int
}

// FromAsterisk reports whether the entry is a field an asterisk expanded to.
func (e ExpandedColumn) FromAsterisk() bool {
	return e.Field != nil
}

// ExpandedColumns returns the output columns with "*" replaced by the fields of
// every table in FROM order and "table.*" by the fields of its table.
func (d *Descriptor) ExpandedColumns() []ExpandedColumn {
	var out []ExpandedColumn
	for i, c := range d.columns {
		switch c.Kind {
		case ColumnAsterisk:
			for pos, ref := range d.tables {
				for _, f := range ref.Table.Fields() {
					out = append(out, ExpandedColumn{Column: i, Field: f, TablePosition: pos})
				}
			}
		case ColumnTableAsterisk:
			for _, f := range c.Table.Fields() {
				out = append(out, ExpandedColumn{Column: i, Field: f, TablePosition: c.TablePosition})
			}
		default:
			out = append(out, ExpandedColumn{Column: i, TablePosition: c.TablePosition})
		}
	}
	return out
}

// SetColumnAlias sets the alias of the column at index i.
func (d *Descriptor) SetColumnAlias(i int, alias string) error {
	c := d.Column(i)
	if c == nil {
		return fmt.Errorf("no column at index %d", i)
	}
	c.Alias = alias
	return nil
}

// ColumnByAliasOrName returns the index of the first non-asterisk column whose
// alias, or field name when it has none, equals name. A "table.field" name
// matches a field column bound to that table or alias.
func (d *Descriptor) ColumnByAliasOrName(name string) int {
	qualifier, fieldName := splitName(name)
	for i, c := range d.columns {
		if c.IsAsterisk() {
			continue
		}
		if qualifier == "" {
			if c.Alias != "" && strings.EqualFold(c.Alias, name) {
				return i
			}
			if c.Alias == "" && c.Kind == ColumnField && strings.EqualFold(c.Field.Name, name) {
				return i
			}
			continue
		}
		if c.Kind != ColumnField || !strings.EqualFold(c.Field.Name, fieldName) {
			continue
		}
		if ref, ok := d.Table(c.TablePosition); ok &&
			(strings.EqualFold(ref.Table.Name, qualifier) || strings.EqualFold(ref.Alias, qualifier)) {
			return i
		}
	}
	return -1
}

// FindTableField resolves "field" or "table.field" against the bound tables and
// returns the field with its FROM position. Unqualified names take the first
// table that has the field.
func (d *Descriptor) FindTableField(name string) (*schema.Field, int) {
	qualifier, fieldName := splitName(name)
	for i, ref := range d.tables {
		if qualifier != "" && !strings.EqualFold(ref.Table.Name, qualifier) && !strings.EqualFold(ref.Alias, qualifier) {
			continue
		}
		if f := ref.Table.Field(fieldName); f != nil {
			return f, i
		}
	}
	return nil, -1
}

// Where returns the WHERE expression, or nil.
func (d *Descriptor) Where() rsql.Expression {
	return d.where
}

// SetWhere sets the WHERE expression.
func (d *Descriptor) SetWhere(e rsql.Expression) {
	d.where = e
}

// AddOrderBy appends a sorting entry.
func (d *Descriptor) AddOrderBy(o OrderBy) {
	d.orderBy = append(d.orderBy, o)
}

// OrderBy returns the sorting entries in clause order.
func (d *Descriptor) OrderBy() []OrderBy {
	return d.orderBy
}

func splitName(name string) (qualifier, field string) {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
