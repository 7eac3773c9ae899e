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

/*
Package sqlquery 把SQL SELECT语句编译成经过校验、绑定到表目录的查询描述符。

处理流程：词法分析(rsql.Lexer) → 语法分析(rsql.Parser) → 绑定(binder.Binder) →
解析会话(Parser)向调用方交付查询描述符或错误。

# 核心特性

• 11级运算符优先级的表达式语法，支持LIKE、IN、SIMILAR TO、BETWEEN、IS NULL
• 表名、别名与字段绑定，检测有歧义的引用
• 星号列与"表.*"列
• ORDER BY按别名、字段名或列位置解析
• CREATE TABLE语句生成表定义
• 首个错误优先的错误报告，区分语法错误与语义错误

# 入门示例

	package main

	import (
		"fmt"
		"strings"

		"github.com/rulego/sqlquery"
		"github.com/rulego/sqlquery/schema"
	)

	const tables = `
	tables:
	  - name: persons
	    fields:
	      - {name: id, type: integer, primaryKey: true}
	      - {name: name, type: text}
	      - {name: age, type: integer}
	`

	func main() {
		catalog, err := schema.LoadYAML(strings.NewReader(tables))
		if err != nil {
			panic(err)
		}

		p := sqlquery.New(catalog)
		if !p.Parse("SELECT name AS n, age FROM persons WHERE age > 18 ORDER BY n DESC, 2") {
			fmt.Println(p.ParseError())
			return
		}
		desc := p.TakeQuery()
		fmt.Println(desc.SQL())
	}

# 错误处理

解析失败时Parse返回false，操作码变为"Error"，ParseError()返回*rsql.ParseError：

	if !p.Parse(sql) {
		pe := p.ParseError()
		fmt.Println(pe.Type, pe.Message, pe.Token, pe.Position)
	}

也可以用Finish一次性取得结果：

	res, err := p.Finish()
	if rsql.IsKind(err, rsql.ErrorKindTableNotFound) {
		// ...
	}

# 条件求值

condition包把查询的WHERE表达式编译为expr-lang程序，对行数据求值：

	cond, err := condition.Compile(desc)
	ok, err := cond.Evaluate(condition.Row{"age": 30})
*/
package sqlquery
