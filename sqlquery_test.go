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

package sqlquery

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/sqlquery/logger"
	"github.com/rulego/sqlquery/query"
	"github.com/rulego/sqlquery/rsql"
	"github.com/rulego/sqlquery/schema"
	"github.com/rulego/sqlquery/types"
)

const testCatalogYAML = `
tables:
  - name: persons
    fields:
      - {name: id, type: integer, primaryKey: true}
      - {name: name, type: varchar, length: 64}
      - {name: age, type: integer}
      - {name: city, type: varchar}
  - name: cars
    fields:
      - {name: id, type: integer, primaryKey: true}
      - {name: owner, type: integer}
      - {name: model, type: varchar}
`

// countingCatalog 记录表查找次数
type countingCatalog struct {
	schema.Catalog
	lookups atomic.Int32
}

func (c *countingCatalog) LookupTable(name string) (*schema.TableSchema, bool) {
	c.lookups.Add(1)
	return c.Catalog.LookupTable(name)
}

func newTestCatalog(t *testing.T) *countingCatalog {
	t.Helper()
	c, err := schema.LoadYAML(strings.NewReader(testCatalogYAML))
	require.NoError(t, err)
	return &countingCatalog{Catalog: c}
}

func newTestParser(t *testing.T, opts ...Option) (*Parser, *countingCatalog) {
	t.Helper()
	catalog := newTestCatalog(t)
	opts = append([]Option{WithDiscardLog()}, opts...)
	return New(catalog, opts...), catalog
}

// TestParseSelectQuery 测试SELECT语句的解析结果
func TestParseSelectQuery(t *testing.T) {
	p, catalog := newTestParser(t)
	assert.Equal(t, Idle, p.State())
	assert.Equal(t, rsql.OpNone, p.Operation())

	sql := "SELECT name, age AS years FROM persons WHERE age > 18 ORDER BY years DESC"
	require.True(t, p.Parse(sql))
	assert.Equal(t, ResultReady, p.State())
	assert.Equal(t, rsql.OpSelect, p.Operation())
	assert.Equal(t, "Select", p.OperationString())
	assert.Nil(t, p.ParseError())
	assert.Equal(t, sql, p.Statement())
	assert.Equal(t, int32(1), catalog.lookups.Load())

	desc := p.TakeQuery()
	require.NotNil(t, desc)
	assert.Nil(t, p.TakeQuery(), "查询描述符只能取走一次")
	assert.Nil(t, p.TakeTable())

	require.Len(t, desc.Columns(), 2)
	assert.Equal(t, "years", desc.Column(1).Alias)
	assert.Equal(t, "persons", desc.MasterTable().Name)
	require.Len(t, desc.OrderBy(), 1)
	assert.False(t, desc.OrderBy()[0].Ascending)
}

// TestParseFailure 测试解析失败后的会话状态
func TestParseFailure(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantKind rsql.ErrorKind
		wantType string
	}{
		{"未知表", "SELECT * FROM nosuch", rsql.ErrorKindTableNotFound, rsql.TypeError},
		{"语法错误", "SELECT name FROM", rsql.ErrorKindSyntax, rsql.TypeSyntaxError},
		{"WHERE缺少条件", "SELECT name FROM persons WHERE", rsql.ErrorKindSyntax, rsql.TypeSyntaxError},
		{"保留字作为表名", "SELECT name FROM select", rsql.ErrorKindReservedKeyword, rsql.TypeSyntaxError},
		{"词法错误", "SELECT name FROM persons WHERE a ? 1", rsql.ErrorKindLexical, rsql.TypeError},
		{"排序位置越界", "SELECT id, name, age FROM persons ORDER BY 5", rsql.ErrorKindOrderByPositionOutOfRange, rsql.TypeError},
		{"不支持的语句", "DELETE FROM persons", rsql.ErrorKindUnsupportedStatement, rsql.TypeError},
		{"整数越界", "SELECT 99999999999999999999", rsql.ErrorKindNumericRange, rsql.TypeSyntaxError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestParser(t)
			assert.False(t, p.Parse(tt.sql))
			assert.Equal(t, ResultReady, p.State())
			assert.Equal(t, rsql.OpError, p.Operation())
			assert.Equal(t, "Error", p.OperationString())
			assert.Nil(t, p.TakeQuery())
			assert.Nil(t, p.TakeTable())

			pe := p.ParseError()
			require.NotNil(t, pe)
			assert.Equal(t, tt.wantKind, pe.Kind, pe.Error())
			assert.Equal(t, tt.wantType, pe.Type)

			res, err := p.Finish()
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, rsql.IsKind(err, tt.wantKind))
			assert.Equal(t, Idle, p.State())
		})
	}
}

// TestParseEmptyStatement 测试空语句不访问目录
func TestParseEmptyStatement(t *testing.T) {
	for _, sql := range []string{"", "   ", "\n\t"} {
		p, catalog := newTestParser(t)
		assert.False(t, p.Parse(sql))
		pe := p.ParseError()
		require.NotNil(t, pe)
		assert.Equal(t, rsql.ErrorKindEmptyStatement, pe.Kind)
		assert.Equal(t, "No query statement specified", pe.Message)
		assert.Equal(t, rsql.OpError, p.Operation())
		assert.Equal(t, int32(0), catalog.lookups.Load())
	}
}

// TestParseCreateTable 测试CREATE TABLE语句
func TestParseCreateTable(t *testing.T) {
	p, catalog := newTestParser(t)
	require.True(t, p.Parse("CREATE TABLE notes (id INTEGER PRIMARY KEY AUTO_INCREMENT, body VARCHAR(200) NOT NULL);"))
	assert.Equal(t, rsql.OpCreateTable, p.Operation())
	assert.Equal(t, "CreateTable", p.OperationString())
	assert.Equal(t, int32(0), catalog.lookups.Load())
	assert.Nil(t, p.TakeQuery())

	table := p.TakeTable()
	require.NotNil(t, table)
	assert.Nil(t, p.TakeTable())
	assert.Equal(t, "notes", table.Name)
	require.Equal(t, 2, table.FieldCount())
	assert.True(t, table.Field("id").PrimaryKey)
	assert.Equal(t, 200, table.Field("body").Length)
	assert.Equal(t, "CREATE TABLE notes (id INTEGER PRIMARY KEY AUTO_INCREMENT, body VARCHAR(200) NOT NULL)", table.SQL())
}

// TestFinish 测试一次性转交结果
func TestFinish(t *testing.T) {
	p, _ := newTestParser(t)

	_, err := p.Finish()
	assert.Error(t, err, "没有解析过语句")

	require.True(t, p.Parse("SELECT * FROM cars"))
	res, err := p.Finish()
	require.NoError(t, err)
	assert.Equal(t, rsql.OpSelect, res.Operation)
	require.NotNil(t, res.Query)
	assert.Nil(t, res.Table)
	assert.Equal(t, Idle, p.State())
	assert.Equal(t, rsql.OpNone, p.Operation())

	_, err = p.Finish()
	assert.Error(t, err)

	t.Run("已取走结果", func(t *testing.T) {
		require.True(t, p.Parse("SELECT * FROM cars"))
		require.NotNil(t, p.TakeQuery())
		_, err := p.Finish()
		assert.Error(t, err)
	})

	t.Run("CREATE TABLE结果", func(t *testing.T) {
		require.True(t, p.Parse("CREATE TABLE t (a INTEGER)"))
		res, err := p.Finish()
		require.NoError(t, err)
		assert.Equal(t, rsql.OpCreateTable, res.Operation)
		assert.Nil(t, res.Query)
		require.NotNil(t, res.Table)
		assert.Equal(t, "t", res.Table.Name)
	})
}

// TestClearAndReuse 测试清除状态与会话复用
func TestClearAndReuse(t *testing.T) {
	p, _ := newTestParser(t)
	assert.False(t, p.Parse("SELECT * FROM nosuch"))
	require.NotNil(t, p.ParseError())

	require.True(t, p.Parse("SELECT model FROM cars"), "新的解析会清除上一次的错误")
	assert.Nil(t, p.ParseError())
	assert.Equal(t, rsql.OpSelect, p.Operation())

	p.Clear()
	assert.Equal(t, Idle, p.State())
	assert.Equal(t, rsql.OpNone, p.Operation())
	assert.Equal(t, "", p.Statement())
	assert.Nil(t, p.TakeQuery())
	assert.Nil(t, p.ParseError())
}

// TestMaxStatementLength 测试语句长度限制
func TestMaxStatementLength(t *testing.T) {
	p, catalog := newTestParser(t, WithMaxStatementLength(20))
	assert.True(t, p.Parse("SELECT * FROM cars"))

	assert.False(t, p.Parse("SELECT model FROM cars WHERE id = 1"))
	pe := p.ParseError()
	require.NotNil(t, pe)
	assert.Equal(t, rsql.ErrorKindSyntax, pe.Kind)
	assert.Equal(t, rsql.TypeSyntaxError, pe.Type)
	assert.Contains(t, pe.Message, "the limit is 20")
	assert.Equal(t, int32(1), catalog.lookups.Load(), "超长语句不应访问目录")
}

// TestSessionOptions 测试会话选项
func TestSessionOptions(t *testing.T) {
	t.Run("表达式校验", func(t *testing.T) {
		sql := "SELECT nosuch + 1 FROM persons"
		p, _ := newTestParser(t)
		assert.True(t, p.Parse(sql))

		p, _ = newTestParser(t, WithExpressionValidation(true))
		assert.False(t, p.Parse(sql))
		assert.Equal(t, rsql.ErrorKindUnknownColumn, p.ParseError().Kind)
	})

	t.Run("被别名覆盖的表名", func(t *testing.T) {
		sql := "SELECT persons.name FROM persons p"
		p, _ := newTestParser(t)
		assert.False(t, p.Parse(sql))

		p, _ = newTestParser(t, WithCoveredTableNames(true))
		assert.True(t, p.Parse(sql))
	})

	t.Run("完整配置", func(t *testing.T) {
		cfg, err := types.LoadConfig(strings.NewReader("validateExpressions: true\nmaxStatementLength: 64\n"))
		require.NoError(t, err)
		p, _ := newTestParser(t, WithConfig(cfg))
		assert.False(t, p.Parse("SELECT nosuch FROM persons WHERE nosuch > 1"))
		assert.False(t, p.Parse("SELECT "+strings.Repeat("name, ", 20)+"id FROM persons"))
		assert.Equal(t, rsql.ErrorKindSyntax, p.ParseError().Kind)
	})

	t.Run("日志输出", func(t *testing.T) {
		var buf bytes.Buffer
		p := New(newTestCatalog(t), WithLogOutput(&buf, logger.DEBUG))
		require.True(t, p.Parse("SELECT name FROM persons"))
		assert.Contains(t, buf.String(), "[DEBUG] [sqlquery] parsed Select statement")

		buf.Reset()
		assert.False(t, p.Parse("SELECT name FROM nosuch"))
		assert.Contains(t, buf.String(), "[WARN] [sqlquery]")
		assert.Contains(t, buf.String(), `Table "nosuch" does not exist.`)
	})

	t.Run("警告级别不输出调试信息", func(t *testing.T) {
		var buf bytes.Buffer
		p := New(newTestCatalog(t), WithLogOutput(&buf, logger.WARN))
		require.True(t, p.Parse("SELECT name FROM persons"))
		assert.Empty(t, buf.String())
	})
}

// TestParseQuery 测试一次性解析函数
func TestParseQuery(t *testing.T) {
	catalog := newTestCatalog(t)

	desc, err := ParseQuery(catalog, "SELECT p.name, c.model FROM persons p, cars c WHERE c.owner = p.id", WithDiscardLog())
	require.NoError(t, err)
	require.Len(t, desc.Tables(), 2)
	assert.Nil(t, desc.MasterTable())

	_, err = ParseQuery(catalog, "SELECT * FROM nosuch", WithDiscardLog())
	assert.True(t, rsql.IsKind(err, rsql.ErrorKindTableNotFound))

	_, err = ParseQuery(catalog, "CREATE TABLE t (a INTEGER)", WithDiscardLog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a query")
}

// TestQuerySQLRoundTrip 测试描述符还原的SQL可以再次解析为相同的描述符
func TestQuerySQLRoundTrip(t *testing.T) {
	catalog := newTestCatalog(t)
	statements := []string{
		"SELECT name, age AS years FROM persons WHERE age > 18 ORDER BY years DESC, 1",
		"SELECT * FROM persons ORDER BY city",
		"SELECT p.name, c.model AS m FROM persons AS p, cars AS c WHERE c.owner = p.id ORDER BY m, c.id DESC",
		"SELECT cars.*, persons.name FROM persons, cars",
		"SELECT 1 + 2 * 3, -age, (age + 1) * 2 AS x FROM persons WHERE name LIKE 'A%' OR age BETWEEN 1 AND 9",
		"SELECT COUNT(*), city FROM persons WHERE city IS NOT NULL AND id IN (1, 2, 3)",
	}
	for _, sql := range statements {
		t.Run(sql, func(t *testing.T) {
			first, err := ParseQuery(catalog, sql, WithDiscardLog())
			require.NoError(t, err)
			rendered := first.SQL()

			second, err := ParseQuery(catalog, rendered, WithDiscardLog())
			require.NoError(t, err, rendered)
			assert.Equal(t, rendered, second.SQL())
			assertSameShape(t, first, second)
		})
	}
}

func assertSameShape(t *testing.T, a, b *query.Descriptor) {
	t.Helper()
	require.Equal(t, len(a.Tables()), len(b.Tables()))
	for i := range a.Tables() {
		assert.Equal(t, a.Tables()[i].Name(), b.Tables()[i].Name())
	}
	require.Equal(t, len(a.Columns()), len(b.Columns()))
	for i, c := range a.Columns() {
		assert.Equal(t, c.Kind, b.Column(i).Kind)
		assert.Equal(t, c.AliasOrName(), b.Column(i).AliasOrName())
		assert.Equal(t, c.TablePosition, b.Column(i).TablePosition)
	}
	require.Equal(t, len(a.OrderBy()), len(b.OrderBy()))
	for i, o := range a.OrderBy() {
		assert.Equal(t, o.Kind, b.OrderBy()[i].Kind)
		assert.Equal(t, o.Ascending, b.OrderBy()[i].Ascending)
	}
}

// TestConcurrentSessions 测试多个会话共享同一目录
func TestConcurrentSessions(t *testing.T) {
	catalog := newTestCatalog(t)
	p := New(catalog, WithDiscardLog())

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sql := fmt.Sprintf("SELECT name FROM persons ORDER BY %d", i%2+1)
			if _, err := ParseQuery(catalog, sql, WithDiscardLog()); err != nil && i%2 == 0 {
				errs <- err
			}
			// 共享会话上的调用是串行的
			p.Parse("SELECT model FROM cars")
			_ = p.Operation()
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, rsql.OpSelect, p.Operation())
}

// TestStateString 测试状态名称
func TestStateString(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "ResultReady", ResultReady.String())
}
