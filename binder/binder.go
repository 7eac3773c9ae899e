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

// Package binder resolves the tables, columns and ORDER BY entries of a parsed
// SELECT against a catalogue and builds a query.Descriptor.
package binder

import (
	"fmt"
	"strings"

	"github.com/rulego/sqlquery/logger"
	"github.com/rulego/sqlquery/query"
	"github.com/rulego/sqlquery/rsql"
	"github.com/rulego/sqlquery/schema"
	"github.com/rulego/sqlquery/types"
)

// Binder builds descriptors for SELECT statements. The catalogue is only read.
type Binder struct {
	catalog schema.Catalog
	config  types.Config
	log     logger.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithConfig sets the binding configuration.
func WithConfig(cfg types.Config) Option {
	return func(b *Binder) {
		b.config = cfg
	}
}

// WithLogger sets the logger for binding diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(b *Binder) {
		if log != nil {
			b.log = log
		}
	}
}

// New creates a binder reading tables from catalog.
func New(catalog schema.Catalog, opts ...Option) *Binder {
	b := &Binder{catalog: catalog, config: types.NewConfig(), log: logger.GetDefault()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// build holds the state of one Build call.
type build struct {
	*Binder
	desc *query.Descriptor
	ctx  *BindingContext
}

// Build binds stmt. The column and table lists of stmt are consumed: their items
// move into the descriptor. Errors are *rsql.ParseError values.
func (b *Binder) Build(stmt *rsql.SelectStatement) (*query.Descriptor, error) {
	if stmt == nil {
		return nil, rsql.NewImplementationError("no statement to build")
	}
	s := &build{Binder: b, desc: query.New(), ctx: NewBindingContext()}

	if err := s.bindTables(stmt.Tables); err != nil {
		return nil, err
	}
	if err := s.bindColumns(stmt.Columns); err != nil {
		return nil, err
	}
	if err := s.bindOptions(stmt.Options); err != nil {
		return nil, err
	}
	if repeated := s.ctx.Repeated(); len(repeated) > 0 {
		b.log.Debug("repeated tables or aliases: %s", strings.Join(repeated, ", "))
	}
	return s.desc, nil
}

func (s *build) bindTables(list *rsql.NAryExpr) error {
	for _, item := range list.TakeArgs() {
		var nameExpr, aliasExpr rsql.Expression = item, nil
		if bin, ok := item.(*rsql.BinaryExpr); ok && bin.IsAlias() {
			nameExpr, aliasExpr = bin.DecomposeAlias()
		}
		name, ok := nameExpr.(*rsql.VariableExpr)
		if !ok {
			return rsql.NewImplementationError(fmt.Sprintf("unexpected table list item %s", item))
		}
		alias := ""
		if aliasExpr != nil {
			v, ok := aliasExpr.(*rsql.VariableExpr)
			if !ok {
				return rsql.NewError(rsql.ErrorKindInvalidAlias,
					fmt.Sprintf("Invalid alias definition for table \"%s\"", name.Name), aliasExpr.String(), name.Pos)
			}
			alias = v.Name
		}

		table, found := s.lookupTable(name.Name)
		if !found {
			return rsql.NewError(rsql.ErrorKindTableNotFound,
				fmt.Sprintf("Table \"%s\" does not exist.", name.Name), name.Name, name.Pos)
		}
		key := name.Name
		if alias != "" {
			key = alias
		}
		position := s.desc.AddTable(table, alias)
		s.ctx.Add(key, position)
		s.log.Debug("bound table %s at position %d", key, position)
	}
	if tables := s.desc.Tables(); len(tables) == 1 {
		s.desc.SetMasterTable(tables[0].Table)
	}
	return nil
}

func (s *build) lookupTable(name string) (*schema.TableSchema, bool) {
	if s.catalog == nil {
		return nil, false
	}
	return s.catalog.LookupTable(name)
}

func (s *build) bindColumns(list *rsql.NAryExpr) error {
	for i, item := range list.TakeArgs() {
		expr, alias, err := decomposeColumn(item)
		if err != nil {
			return err
		}

		var column *query.Column
		switch e := expr.(type) {
		case *rsql.VariableExpr:
			if column, err = s.bindVariableColumn(e); err != nil {
				return err
			}
		case *rsql.BinaryExpr:
			if e.IsAlias() {
				return invalidColumn(e)
			}
			column = &query.Column{Kind: query.ColumnExpression, TablePosition: -1, Expr: e}
		case *rsql.NAryExpr:
			if e.Class() == rsql.ClassTableList || (e.Class() == rsql.ClassArgumentList && !e.IsBetween()) {
				return invalidColumn(e)
			}
			column = &query.Column{Kind: query.ColumnExpression, TablePosition: -1, Expr: e}
		case nil:
			return rsql.NewImplementationError(fmt.Sprintf("empty column at index %d", i))
		default:
			column = &query.Column{Kind: query.ColumnExpression, TablePosition: -1, Expr: e}
		}

		if column.Kind == query.ColumnExpression && s.config.ValidateExpressions {
			if err := s.bindNested(column.Expr); err != nil {
				return err
			}
		}
		index := s.desc.AddColumn(column)
		if index != i {
			return rsql.NewImplementationError(fmt.Sprintf("column index %d does not match item %d", index, i))
		}
		if alias != "" {
			if err := s.desc.SetColumnAlias(index, alias); err != nil {
				return rsql.NewImplementationError(err.Error())
			}
		}
		s.log.Debug("bound column %d: %s [%s]", index, column.Name(), column.Kind)
	}
	return nil
}

// decomposeColumn unwraps an "expr [AS] alias" item.
func decomposeColumn(item rsql.Expression) (rsql.Expression, string, error) {
	bin, ok := item.(*rsql.BinaryExpr)
	if !ok || !bin.IsAlias() {
		return item, "", nil
	}
	inner, aliasExpr := bin.DecomposeAlias()
	v, ok := aliasExpr.(*rsql.VariableExpr)
	if !ok || strings.Contains(v.Name, ".") {
		token := ""
		if aliasExpr != nil {
			token = aliasExpr.String()
		}
		return nil, "", rsql.NewError(rsql.ErrorKindInvalidAlias,
			fmt.Sprintf("Invalid alias definition for column \"%s\"", inner), token, -1)
	}
	return inner, v.Name, nil
}

func invalidColumn(e rsql.Expression) error {
	return rsql.NewError(rsql.ErrorKindInvalidColumnDefinition,
		fmt.Sprintf("Invalid column definition \"%s\"", e), e.String(), -1)
}

func (s *build) bindVariableColumn(v *rsql.VariableExpr) (*query.Column, error) {
	if v.IsAsterisk() {
		if len(s.desc.Tables()) == 0 {
			return nil, rsql.NewError(rsql.ErrorKindEmptyTableListForAsterisk,
				"Could not use '*' with no tables specified", "*", v.Pos)
		}
		return &query.Column{Kind: query.ColumnAsterisk, TablePosition: -1, Expr: v}, nil
	}

	if err := s.bindVariable(v); err != nil {
		return nil, err
	}
	if v.AsteriskTable != nil {
		return &query.Column{Kind: query.ColumnTableAsterisk, Table: v.AsteriskTable,
			TablePosition: v.TablePosition, Expr: v}, nil
	}
	return &query.Column{Kind: query.ColumnField, Field: v.Field, Table: v.Field.Table(),
		TablePosition: v.TablePosition, Expr: v}, nil
}

// bindVariable resolves "field", "table.field", "alias.field", "table.*" and
// "alias.*" against the bound tables and stores the result in v.
func (s *build) bindVariable(v *rsql.VariableExpr) error {
	qualifier, fieldName := v.Split()
	if qualifier == "" {
		return s.bindUnqualified(v, fieldName)
	}

	positions, table, err := s.resolveQualifier(v, qualifier, fieldName)
	if err != nil {
		return err
	}

	if fieldName == "*" {
		if len(positions) > 1 {
			return rsql.NewError(rsql.ErrorKindAmbiguousReference,
				fmt.Sprintf("Ambiguous \"%s.*\" expression: more than one \"%s\" table or alias defined", qualifier, qualifier),
				v.Name, v.Pos)
		}
		v.AsteriskTable = table
		v.TablePosition = positions[0]
		return nil
	}

	var field *schema.Field
	position := -1
	for _, p := range positions {
		ref, _ := s.desc.Table(p)
		f := ref.Table.Field(fieldName)
		if f == nil {
			continue
		}
		if field != nil {
			return rsql.NewError(rsql.ErrorKindAmbiguousReference,
				fmt.Sprintf("Ambiguous \"%s\" expression: more than one \"%s\" table or alias defined containing \"%s\" field",
					v.Name, qualifier, fieldName), v.Name, v.Pos)
		}
		field, position = f, p
	}
	if field == nil {
		return rsql.NewError(rsql.ErrorKindUnknownColumn,
			fmt.Sprintf("Table \"%s\" has no \"%s\" field", qualifier, fieldName), v.Name, v.Pos)
	}
	v.Field = field
	v.TablePosition = position
	return nil
}

// resolveQualifier finds the FROM positions a qualifier refers to. A table name
// wins over an alias of the same spelling.
func (s *build) resolveQualifier(v *rsql.VariableExpr, qualifier, fieldName string) ([]int, *schema.TableSchema, error) {
	var table *schema.TableSchema
	var positions []int

	if byName := s.desc.TablePositions(qualifier); len(byName) > 0 {
		covered := true
		for _, p := range byName {
			ref, _ := s.desc.Table(p)
			if ref.Alias == "" || strings.EqualFold(ref.Alias, qualifier) {
				covered = false
				break
			}
		}
		if covered && !s.config.AllowTableNameCoveredByAlias {
			ref, _ := s.desc.Table(byName[0])
			return nil, nil, rsql.NewError(rsql.ErrorKindTableNotFound,
				fmt.Sprintf("Could not access the table directly using its name: table \"%s\" is covered by aliases, write \"%s.%s\" instead of \"%s\"",
					qualifier, ref.Alias, fieldName, v.Name), v.Name, v.Pos)
		}
		ref, _ := s.desc.Table(byName[0])
		table = ref.Table
		positions = s.ctx.Positions(qualifier)
		if covered {
			positions = byName
		}
	} else if p := s.desc.TablePositionForAlias(qualifier); p >= 0 {
		ref, _ := s.desc.Table(p)
		table = ref.Table
		positions = s.ctx.Positions(qualifier)
	}

	if table == nil {
		return nil, nil, rsql.NewError(rsql.ErrorKindTableNotFound,
			fmt.Sprintf("Table not found: unknown table \"%s\"", qualifier), v.Name, v.Pos)
	}
	if len(positions) == 0 {
		return nil, nil, rsql.NewImplementationError(fmt.Sprintf("no positions recorded for %s", v.Name))
	}
	return positions, table, nil
}

// bindUnqualified binds a bare field name to the first table having it. The
// same table appearing twice is not ambiguous.
func (s *build) bindUnqualified(v *rsql.VariableExpr, fieldName string) error {
	var first *schema.Field
	position := -1
	for i, ref := range s.desc.Tables() {
		f := ref.Table.Field(fieldName)
		if f == nil {
			continue
		}
		if first == nil {
			first, position = f, i
			continue
		}
		if f.Table() != first.Table() {
			return rsql.NewError(rsql.ErrorKindAmbiguousReference,
				fmt.Sprintf("Ambiguous field name: both table \"%s\" and \"%s\" have defined \"%s\" field, use \"<tableName>.%s\" notation",
					first.Table().Name, f.Table().Name, fieldName, fieldName), v.Name, v.Pos)
		}
	}
	if first == nil {
		return rsql.NewError(rsql.ErrorKindUnknownColumn,
			fmt.Sprintf("Field not found: table containing \"%s\" field not found", fieldName), v.Name, v.Pos)
	}
	v.Field = first
	v.TablePosition = position
	return nil
}

// bindNested binds every variable inside expr. The "*" of COUNT(*) is skipped.
func (s *build) bindNested(expr rsql.Expression) error {
	for _, v := range rsql.Variables(expr) {
		if v.IsAsterisk() {
			continue
		}
		if v.IsTableAsterisk() {
			return invalidColumn(v)
		}
		if err := s.bindVariable(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *build) bindOptions(options *rsql.SelectOptions) error {
	if options == nil {
		return nil
	}
	if options.Where != nil {
		if s.config.ValidateExpressions {
			if err := s.bindNested(options.Where); err != nil {
				return err
			}
		}
		s.desc.SetWhere(options.Where)
		options.Where = nil
	}
	for _, item := range options.OrderBy {
		entry, err := s.resolveOrderBy(item)
		if err != nil {
			return err
		}
		s.desc.AddOrderBy(entry)
	}
	return nil
}

func (s *build) resolveOrderBy(item rsql.OrderByItem) (query.OrderBy, error) {
	if item.ByPosition {
		expanded := s.desc.ExpandedColumns()
		if item.Position < 1 || item.Position > len(expanded) {
			return query.OrderBy{}, rsql.NewError(rsql.ErrorKindOrderByPositionOutOfRange,
				fmt.Sprintf("Could not define sorting - no column at position %d", item.Position),
				item.String(), item.Pos)
		}
		entry := expanded[item.Position-1]
		if entry.FromAsterisk() {
			return query.OrderBy{Kind: query.OrderByField, Column: -1, Position: item.Position,
				Field: entry.Field, TablePosition: entry.TablePosition, Ascending: item.Ascending}, nil
		}
		return query.OrderBy{Kind: query.OrderByPosition, Column: entry.Column,
			Position: item.Position, TablePosition: -1, Ascending: item.Ascending}, nil
	}

	if index := s.desc.ColumnByAliasOrName(item.Name); index >= 0 {
		return query.OrderBy{Kind: query.OrderByColumn, Column: index, TablePosition: -1,
			Ascending: item.Ascending}, nil
	}
	field, position := s.desc.FindTableField(item.Name)
	if field == nil {
		return query.OrderBy{}, rsql.NewError(rsql.ErrorKindOrderByColumnNotFound,
			fmt.Sprintf("Could not set sorting for column \"%s\"", item.Name), item.Name, item.Pos)
	}
	return query.OrderBy{Kind: query.OrderByField, Column: -1, Field: field,
		TablePosition: position, Ascending: item.Ascending}, nil
}
