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
	"encoding/json"
	"fmt"
	"io"

	"github.com/rulego/sqlquery/utils/cast"
	"gopkg.in/yaml.v3"
)

// catalogDefinition is the document format accepted by LoadJSON and LoadYAML:
//
//	tables:
//	  - name: persons
//	    fields:
//	      - {name: id, type: integer, primaryKey: true}
//	      - {name: name, type: varchar, length: 64}
//
// Field attributes are loosely typed so that hand-written files may quote numbers
// and flags.
type catalogDefinition struct {
	Tables []tableDefinition `json:"tables" yaml:"tables"`
}

type tableDefinition struct {
	Name   string           `json:"name" yaml:"name"`
	Fields []map[string]any `json:"fields" yaml:"fields"`
}

// LoadJSON reads a catalogue definition in JSON form.
func LoadJSON(r io.Reader) (*MemoryCatalog, error) {
	var def catalogDefinition
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return def.build()
}

// LoadYAML reads a catalogue definition in YAML form.
func LoadYAML(r io.Reader) (*MemoryCatalog, error) {
	var def catalogDefinition
	if err := yaml.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return def.build()
}

func (d *catalogDefinition) build() (*MemoryCatalog, error) {
	c := NewMemoryCatalog()
	for i, td := range d.Tables {
		if td.Name == "" {
			return nil, fmt.Errorf("table #%d has no name", i+1)
		}
		t, err := NewTableSchema(td.Name)
		if err != nil {
			return nil, err
		}
		for j, attrs := range td.Fields {
			f, err := fieldFromAttributes(attrs)
			if err != nil {
				return nil, fmt.Errorf("table %q, field #%d: %w", td.Name, j+1, err)
			}
			if err := t.AddField(f); err != nil {
				return nil, err
			}
		}
		if err := c.AddTable(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func fieldFromAttributes(attrs map[string]any) (*Field, error) {
	name := cast.ToString(attrs["name"])
	if name == "" {
		return nil, fmt.Errorf("missing name")
	}
	f := NewField(name, Text)
	if v, ok := attrs["type"]; ok {
		t, found := TypeFromName(cast.ToString(v))
		if !found {
			return nil, fmt.Errorf("field %q: unknown type %v", name, v)
		}
		f.Type = t
	}
	var err error
	if f.Length, err = cast.ToInt(attrs["length"]); err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	if f.PrimaryKey, err = cast.ToBool(attrs["primaryKey"]); err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	if f.NotNull, err = cast.ToBool(attrs["notNull"]); err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	if f.AutoIncrement, err = cast.ToBool(attrs["autoIncrement"]); err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return f, nil
}
