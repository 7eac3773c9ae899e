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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/sqlquery/schema"
)

// TestConstFieldType 测试常量类型推断
func TestConstFieldType(t *testing.T) {
	tests := []struct {
		literal string
		want    schema.FieldType
	}{
		{"1", schema.Byte},
		{"255", schema.Byte},
		{"256", schema.ShortInteger},
		{"65535", schema.ShortInteger},
		{"65536", schema.Integer},
		{"4294967295", schema.Integer},
		{"4294967296", schema.BigInteger},
	}
	for _, tt := range tests {
		c, err := NewIntegerConst(tt.literal)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.FieldType(), tt.literal)
	}

	assert.Equal(t, schema.Null, NewNullConst().FieldType())
	assert.Equal(t, schema.Text, NewStringConst("x").FieldType())
	r, err := NewRealConst("1.5")
	require.NoError(t, err)
	assert.Equal(t, schema.Double, r.FieldType())

	dt, err := NewDateTimeConst(TokenDateTime, "2024-01-31 10:20")
	require.NoError(t, err)
	assert.Equal(t, schema.DateTime, dt.FieldType())
	tm, err := NewDateTimeConst(TokenTime, "10:20:30")
	require.NoError(t, err)
	assert.Equal(t, schema.Time, tm.FieldType())
}

// TestExpressionString 测试表达式的SQL文本
func TestExpressionString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a+1", "a + 1"},
		{"NOT a", "NOT a"},
		{"a IS NULL", "a IS NULL"},
		{"a IS NOT NULL", "a IS NOT NULL"},
		{"'o''k'", "'o''k'"},
		{"- -1", "- -1"},
		{"-(-1)", "-(-1)"},
		{"~a", "~a"},
		{"f(a, 'b', 3)", "f(a, 'b', 3)"},
		{"t.a * (b - c)", "t.a * (b - c)"},
		{"x NOT BETWEEN 1 AND 2", "x NOT BETWEEN 1 AND 2"},
		{"#10:30#", "#10:30#"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := parseExpr(t, tt.input)
			assert.Equal(t, tt.want, e.String())
			again := parseExpr(t, e.String())
			assert.Equal(t, e.String(), again.String())
		})
	}
}

// TestDecomposeAlias 测试别名节点分解
func TestDecomposeAlias(t *testing.T) {
	inner := NewVariable("a", 0)
	alias := NewVariable("b", 5)
	wrapper := NewAlias(inner, true, alias)
	require.True(t, wrapper.IsAlias())
	assert.Equal(t, ClassSpecialBinary, wrapper.Class())

	gotInner, gotAlias := wrapper.DecomposeAlias()
	assert.Same(t, inner, gotInner)
	assert.Same(t, alias, gotAlias)
	assert.Nil(t, wrapper.Left)
	assert.Nil(t, wrapper.Right)

	assert.False(t, NewBinary(inner, TokenPlus, alias).IsAlias())
}

// TestTakeArgs 测试列表所有权转移
func TestTakeArgs(t *testing.T) {
	list := NewArgumentList(NewVariable("a", 0), NewVariable("b", 2))
	args := list.TakeArgs()
	assert.Len(t, args, 2)
	assert.Equal(t, 0, list.Len())
	assert.Nil(t, list.TakeArgs())

	var missing *NAryExpr
	assert.Equal(t, 0, missing.Len())
	assert.Nil(t, missing.TakeArgs())
}

// TestVariableForms 测试变量名形式
func TestVariableForms(t *testing.T) {
	assert.True(t, NewVariable("*", 0).IsAsterisk())
	assert.False(t, NewVariable("*", 0).IsTableAsterisk())
	assert.True(t, NewVariable("t.*", 0).IsTableAsterisk())
	assert.False(t, NewVariable("t.a", 0).IsTableAsterisk())

	q, f := NewVariable("a", 0).Split()
	assert.Empty(t, q)
	assert.Equal(t, "a", f)
}

// TestWalkers 测试表达式遍历
func TestWalkers(t *testing.T) {
	e := parseExpr(t, "a > :min AND f(b, [max]) BETWEEN c AND 10")

	params := QueryParameters(e)
	require.Len(t, params, 2)
	assert.Equal(t, "min", params[0].Message)
	assert.Equal(t, "max", params[1].Message)

	vars := Variables(e)
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	count := 0
	Walk(e, func(Expression) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

// TestClassNames 测试表达式类别名称
func TestClassNames(t *testing.T) {
	assert.Equal(t, "Relational", ClassRelational.String())
	assert.Equal(t, "SpecialBinary", ClassSpecialBinary.String())
	assert.Equal(t, "Unknown", ExprClass(99).String())
	assert.Equal(t, "int64", Int64.String())
}

// TestOperationNames 测试操作码名称
func TestOperationNames(t *testing.T) {
	names := map[Operation]string{
		OpNone:        "None",
		OpError:       "Error",
		OpCreateTable: "CreateTable",
		OpAlterTable:  "AlterTable",
		OpSelect:      "Select",
		OpInsert:      "Insert",
		OpUpdate:      "Update",
		OpDelete:      "Delete",
		Operation(42): "Unknown",
	}
	for op, want := range names {
		assert.Equal(t, want, op.String())
	}
}
