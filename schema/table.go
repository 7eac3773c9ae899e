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

// TableSchema is an ordered list of fields under a table name.
// Field lookups are case-insensitive.
type TableSchema struct {
	Name string

	fields []*Field
	index  map[string]*Field
}

// NewTableSchema creates a table with the given fields. Duplicate field names are
// reported as an error.
func NewTableSchema(name string, fields ...*Field) (*TableSchema, error) {
	t := &TableSchema{Name: name, index: make(map[string]*Field)}
	for _, f := range fields {
		if err := t.AddField(f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddField appends f to the table and makes the table its owner.
func (t *TableSchema) AddField(f *Field) error {
	if f == nil || f.Name == "" {
		return fmt.Errorf("table %q: field without a name", t.Name)
	}
	if t.index == nil {
		t.index = make(map[string]*Field)
	}
	key := strings.ToLower(f.Name)
	if _, exists := t.index[key]; exists {
		return fmt.Errorf("table %q: field %q already defined", t.Name, f.Name)
	}
	f.table = t
	t.fields = append(t.fields, f)
	t.index[key] = f
	return nil
}

// Field returns the field called name, or nil.
func (t *TableSchema) Field(name string) *Field {
	if t == nil || t.index == nil {
		return nil
	}
	return t.index[strings.ToLower(name)]
}

// Fields returns the fields in definition order.
func (t *TableSchema) Fields() []*Field {
	return t.fields
}

// FieldCount returns the number of fields.
func (t *TableSchema) FieldCount() int {
	return len(t.fields)
}

// PrimaryKey returns the primary key fields in definition order.
func (t *TableSchema) PrimaryKey() []*Field {
	var pk []*Field
	for _, f := range t.fields {
		if f.PrimaryKey {
			pk = append(pk, f)
		}
	}
	return pk
}

// SQL renders a CREATE TABLE statement for the table.
func (t *TableSchema) SQL() string {
	defs := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		defs = append(defs, f.Definition())
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", t.Name, strings.Join(defs, ", "))
}
