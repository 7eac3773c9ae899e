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

package schema

import (
	"fmt"
	"strings"
)

// Field is a column of a table.
type Field struct {
	Name string
	Type FieldType
	// Length is the maximum length of text fields, 0 when unbounded.
	Length        int
	PrimaryKey    bool
	NotNull       bool
	AutoIncrement bool

	table *TableSchema
}

// NewField creates a detached field.
func NewField(name string, t FieldType) *Field {
	return &Field{Name: name, Type: t}
}

// Table returns the table owning f, or nil if f has not been added to a table.
func (f *Field) Table() *TableSchema {
	return f.table
}

// Definition renders the field as a CREATE TABLE column definition.
func (f *Field) Definition() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	if name := f.Type.SQLName(); name != "" {
		sb.WriteByte(' ')
		sb.WriteString(name)
	}
	if f.Length > 0 && f.Type.IsText() {
		fmt.Fprintf(&sb, "(%d)", f.Length)
	}
	if f.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if f.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if f.AutoIncrement {
		sb.WriteString(" AUTO_INCREMENT")
	}
	return sb.String()
}

func (f *Field) String() string {
	if f.table != nil {
		return f.table.Name + "." + f.Name
	}
	return f.Name
}
