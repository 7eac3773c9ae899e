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

package query

import (
	"fmt"
	"strconv"
	"strings"
)

// SQL renders the descriptor as a SELECT statement. Columns and names keep the
// spelling they were written with, so the result parses back to an equivalent
// descriptor.
func (d *Descriptor) SQL() string {
	var sb strings.Builder
	sb.WriteString("SELECT")
	for i, c := range d.columns {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(d.columnSQL(c))
		if c.Alias != "" {
			sb.WriteString(" AS ")
			sb.WriteString(c.Alias)
		}
	}

	if len(d.tables) > 0 {
		sb.WriteString(" FROM ")
		for i, ref := range d.tables {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(ref.Table.Name)
			if ref.Alias != "" {
				sb.WriteString(" AS ")
				sb.WriteString(ref.Alias)
			}
		}
	}

	if d.where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(d.where.String())
	}

	if len(d.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, o := range d.orderBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.orderBySQL(o))
			if !o.Ascending {
				sb.WriteString(" DESC")
			}
		}
	}
	return sb.String()
}

func (d *Descriptor) columnSQL(c *Column) string {
	if c.Expr != nil {
		return c.Expr.String()
	}
	switch c.Kind {
	case ColumnField:
		return d.qualifiedField(c.TablePosition, c.Field.Name)
	case ColumnTableAsterisk:
		return c.Table.Name + ".*"
	}
	return c.Name()
}

func (d *Descriptor) orderBySQL(o OrderBy) string {
	switch o.Kind {
	case OrderByPosition:
		return strconv.Itoa(o.Position)
	case OrderByColumn:
		if c := d.Column(o.Column); c != nil {
			if c.Alias != "" {
				return c.Alias
			}
			return d.columnSQL(c)
		}
	case OrderByField:
		if o.Field != nil {
			return d.qualifiedField(o.TablePosition, o.Field.Name)
		}
	}
	return "?"
}

// qualifiedField prefixes field with its table when the query has several tables.
func (d *Descriptor) qualifiedField(position int, field string) string {
	if ref, ok := d.Table(position); ok && len(d.tables) > 1 {
		return ref.Name() + "." + field
	}
	return field
}

// String returns a multi-line dump of the descriptor for diagnostics.
func (d *Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString("QUERY\n")
	sb.WriteString("TABLES:\n")
	for i, ref := range d.tables {
		sb.WriteString(fmt.Sprintf("  %d: %s", i, ref.Table.Name))
		if ref.Alias != "" {
			sb.WriteString(" AS " + ref.Alias)
		}
		sb.WriteString("\n")
	}
	if d.master != nil {
		sb.WriteString("MASTER TABLE: " + d.master.Name + "\n")
	}
	sb.WriteString("COLUMNS:\n")
	for i, c := range d.columns {
		sb.WriteString(fmt.Sprintf("  %d: %s [%s]", i, d.columnSQL(c), c.Kind))
		if c.TablePosition >= 0 {
			sb.WriteString(fmt.Sprintf(" table #%d", c.TablePosition))
		}
		if c.Alias != "" {
			sb.WriteString(" AS " + c.Alias)
		}
		sb.WriteString("\n")
	}
	if d.where != nil {
		sb.WriteString("WHERE: " + d.where.String() + "\n")
	}
	if len(d.orderBy) > 0 {
		sb.WriteString("ORDER BY:\n")
		for _, o := range d.orderBy {
			dir := "ASC"
			if !o.Ascending {
				dir = "DESC"
			}
			sb.WriteString(fmt.Sprintf("  %s [%s] %s\n", d.orderBySQL(o), o.Kind, dir))
		}
	}
	return sb.String()
}
