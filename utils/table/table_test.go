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

package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormat 测试表格渲染
func TestFormat(t *testing.T) {
	got := Format([]string{"#", "column", "kind"}, [][]string{
		{"0", "name", "Field"},
		{"1", "age + 1", "Expression"},
	})
	want := "" +
		"+------+---------+------------+\n" +
		"| #    | column  | kind       |\n" +
		"+------+---------+------------+\n" +
		"| 0    | name    | Field      |\n" +
		"| 1    | age + 1 | Expression |\n" +
		"+------+---------+------------+\n" +
		"(2 rows)\n"
	assert.Equal(t, want, got)
}

// TestFormatRaggedRows 测试长度不一致的行
func TestFormatRaggedRows(t *testing.T) {
	got := Format([]string{"a", "b"}, [][]string{{"1"}, {"2", "3", "ignored"}})
	want := "" +
		"+------+------+\n" +
		"| a    | b    |\n" +
		"+------+------+\n" +
		"| 1    |      |\n" +
		"| 2    | 3    |\n" +
		"+------+------+\n" +
		"(2 rows)\n"
	assert.Equal(t, want, got)
}

// TestFormatEmpty 测试空表
func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "+------+\n| name |\n+------+\n+------+\n(0 rows)\n", Format([]string{"name"}, nil))
	assert.Equal(t, "+\n|\n+\n+\n(0 rows)\n", Format(nil, nil))
}

// TestFormatWideRunes 测试多字节字符按字符数对齐
func TestFormatWideRunes(t *testing.T) {
	got := Format([]string{"名称"}, [][]string{{"é"}})
	assert.Equal(t, "+------+\n| 名称   |\n+------+\n| é    |\n+------+\n(1 rows)\n", got)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

// TestWriteError 测试写入错误
func TestWriteError(t *testing.T) {
	assert.Error(t, Write(failingWriter{}, []string{"a"}, nil))
}
