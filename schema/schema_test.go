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
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypeFromName 测试类型名称解析
func TestTypeFromName(t *testing.T) {
	tests := []struct {
		name  string
		want  FieldType
		found bool
	}{
		{"integer", Integer, true},
		{"INT", Integer, true},
		{"varchar", Text, true},
		{"Date", Date, true},
		{"timestamp", DateTime, true},
		{"BigInteger", BigInteger, true},
		{"LongText", LongText, true},
		{"Null", InvalidType, false},
		{"InvalidType", InvalidType, false},
		{"money", InvalidType, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := TypeFromName(tt.name)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestFieldTypeNames 测试类型名称与分类
func TestFieldTypeNames(t *testing.T) {
	assert.Equal(t, "Integer", Integer.String())
	assert.Equal(t, "InvalidType", FieldType(99).String())
	assert.Equal(t, "VARCHAR", Text.SQLName())
	assert.Equal(t, "", Null.SQLName())
	assert.True(t, Byte.IsInteger())
	assert.True(t, BigInteger.IsInteger())
	assert.False(t, Float.IsInteger())
	assert.True(t, Double.IsFloatingPoint())
	assert.True(t, LongText.IsText())
	assert.False(t, BLOB.IsText())
}

// TestTableSchema 测试表结构
func TestTableSchema(t *testing.T) {
	id := NewField("id", Integer)
	id.PrimaryKey = true
	id.AutoIncrement = true
	name := NewField("name", Text)
	name.Length = 64
	name.NotNull = true

	table, err := NewTableSchema("persons", id, name, NewField("born", Date))
	require.NoError(t, err)

	assert.Equal(t, 3, table.FieldCount())
	assert.Same(t, name, table.Field("NAME"))
	assert.Nil(t, table.Field("nosuch"))
	assert.Same(t, table, id.Table())
	assert.Equal(t, "persons.name", name.String())
	assert.Equal(t, []*Field{id}, table.PrimaryKey())
	assert.Equal(t, []string{"id", "name", "born"}, fieldNames(table.Fields()))

	assert.Equal(t, "CREATE TABLE persons (id INTEGER PRIMARY KEY AUTO_INCREMENT, name VARCHAR(64) NOT NULL, born DATE)", table.SQL())

	t.Run("重复字段", func(t *testing.T) {
		err := table.AddField(NewField("Name", Text))
		assert.Error(t, err)
		_, err = NewTableSchema("t", NewField("a", Text), NewField("a", Integer))
		assert.Error(t, err)
	})

	t.Run("无名字段", func(t *testing.T) {
		assert.Error(t, table.AddField(NewField("", Text)))
		assert.Error(t, table.AddField(nil))
	})

	t.Run("空表", func(t *testing.T) {
		var nilTable *TableSchema
		assert.Nil(t, nilTable.Field("id"))
		detached := NewField("x", Integer)
		assert.Nil(t, detached.Table())
		assert.Equal(t, "x", detached.String())
	})
}

func fieldNames(fields []*Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// TestMemoryCatalog 测试内存目录
func TestMemoryCatalog(t *testing.T) {
	persons, err := NewTableSchema("Persons", NewField("id", Integer))
	require.NoError(t, err)
	cars, err := NewTableSchema("cars", NewField("id", Integer))
	require.NoError(t, err)

	c := NewMemoryCatalog(persons)
	require.NoError(t, c.AddTable(cars))
	assert.Error(t, c.AddTable(cars))
	assert.Error(t, c.AddTable(&TableSchema{}))

	got, ok := c.LookupTable("PERSONS")
	require.True(t, ok)
	assert.Same(t, persons, got)
	_, ok = c.LookupTable("nosuch")
	assert.False(t, ok)

	assert.Equal(t, []string{"Persons", "cars"}, c.TableNames())
	assert.True(t, c.DropTable("cars"))
	assert.False(t, c.DropTable("cars"))
	assert.Equal(t, []string{"Persons"}, c.TableNames())
}

// TestMemoryCatalogConcurrentLookup 测试并发读取目录
func TestMemoryCatalogConcurrentLookup(t *testing.T) {
	table, err := NewTableSchema("persons", NewField("id", Integer))
	require.NoError(t, err)
	c := NewMemoryCatalog(table)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, ok := c.LookupTable("persons")
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}

const catalogYAML = `
tables:
  - name: persons
    fields:
      - {name: id, type: integer, primaryKey: true, autoIncrement: "yes"}
      - {name: name, type: varchar, length: "64", notNull: true}
      - {name: age, type: int}
  - name: cars
    fields:
      - {name: id, type: integer}
      - {name: owner, type: integer}
      - {name: model}
`

const catalogJSON = `{
  "tables": [
    {"name": "persons", "fields": [
      {"name": "id", "type": "integer", "primaryKey": true, "autoIncrement": "yes"},
      {"name": "name", "type": "varchar", "length": 64, "notNull": "true"},
      {"name": "age", "type": "int"}
    ]},
    {"name": "cars", "fields": [
      {"name": "id", "type": "integer"},
      {"name": "owner", "type": "integer"},
      {"name": "model"}
    ]}
  ]
}`

// TestLoadCatalog 测试从YAML和JSON加载目录
func TestLoadCatalog(t *testing.T) {
	loaders := map[string]func() (*MemoryCatalog, error){
		"YAML": func() (*MemoryCatalog, error) { return LoadYAML(strings.NewReader(catalogYAML)) },
		"JSON": func() (*MemoryCatalog, error) { return LoadJSON(strings.NewReader(catalogJSON)) },
	}
	for format, load := range loaders {
		t.Run(format, func(t *testing.T) {
			c, err := load()
			require.NoError(t, err)
			assert.Equal(t, []string{"cars", "persons"}, c.TableNames())

			persons, ok := c.LookupTable("persons")
			require.True(t, ok)
			require.Equal(t, 3, persons.FieldCount())

			id := persons.Field("id")
			assert.Equal(t, Integer, id.Type)
			assert.True(t, id.PrimaryKey)
			assert.True(t, id.AutoIncrement)

			name := persons.Field("name")
			assert.Equal(t, Text, name.Type)
			assert.Equal(t, 64, name.Length)
			assert.True(t, name.NotNull)

			cars, ok := c.LookupTable("cars")
			require.True(t, ok)
			assert.Equal(t, Text, cars.Field("model").Type, "缺省类型为文本")
		})
	}
}

// TestLoadCatalogErrors 测试无效的目录定义
func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"表没有名字", "tables:\n  - fields: []\n"},
		{"字段没有名字", "tables:\n  - name: t\n    fields:\n      - {type: integer}\n"},
		{"未知类型", "tables:\n  - name: t\n    fields:\n      - {name: a, type: money}\n"},
		{"无效长度", "tables:\n  - name: t\n    fields:\n      - {name: a, length: long}\n"},
		{"无效标志", "tables:\n  - name: t\n    fields:\n      - {name: a, notNull: maybe}\n"},
		{"重复字段", "tables:\n  - name: t\n    fields:\n      - {name: a}\n      - {name: A}\n"},
		{"重复表", "tables:\n  - name: t\n  - name: T\n"},
		{"格式错误", "tables: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadYAML(strings.NewReader(tt.doc))
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}

	_, err := LoadJSON(strings.NewReader("{"))
	assert.Error(t, err)
}
