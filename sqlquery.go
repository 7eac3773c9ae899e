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
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rulego/sqlquery/binder"
	"github.com/rulego/sqlquery/logger"
	"github.com/rulego/sqlquery/query"
	"github.com/rulego/sqlquery/rsql"
	"github.com/rulego/sqlquery/schema"
	"github.com/rulego/sqlquery/types"
)

// State 解析会话状态
type State int

const (
	// Idle 尚未解析语句，或已调用Clear
	Idle State = iota
	// ResultReady 已解析语句，操作码、结果和错误可供读取
	ResultReady
)

func (s State) String() string {
	if s == ResultReady {
		return "ResultReady"
	}
	return "Idle"
}

// Result 是一次成功解析的结果，由Finish一次性转交给调用方。
type Result struct {
	Operation rsql.Operation
	// Query 仅在SELECT语句时非空
	Query *query.Descriptor
	// Table 仅在CREATE TABLE语句时非空
	Table *schema.TableSchema
}

// Parser 是SQL解析会话。
// 它把语句文本依次交给词法分析、语法分析和绑定器，并保存操作码、查询描述符和错误。
// Parse调用在同一实例上是串行的。
//
// 使用示例:
//
//	catalog, _ := schema.LoadYAML(file)
//	p := sqlquery.New(catalog)
//	if !p.Parse("SELECT name FROM persons ORDER BY 1") {
//	    fmt.Println(p.ParseError())
//	    return
//	}
//	desc := p.TakeQuery()
type Parser struct {
	mu sync.Mutex

	catalog schema.Catalog
	config  types.Config
	log     logger.Logger

	state     State
	statement string
	op        rsql.Operation
	query     *query.Descriptor
	table     *schema.TableSchema
	reporter  rsql.Reporter
}

// New 创建解析会话。catalog用于解析表名和字段名，只读访问。
//
// 示例:
//
//	p := sqlquery.New(catalog, sqlquery.WithExpressionValidation(true))
func New(catalog schema.Catalog, options ...Option) *Parser {
	p := &Parser{
		catalog: catalog,
		config:  types.NewConfig(),
		log:     logger.GetDefault(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Parse 解析一条语句，成功返回true。
// 失败时操作码为Error，只有ParseError可读，部分构建的结构不会暴露。
func (p *Parser) Parse(statement string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clear()
	p.statement = statement
	p.state = ResultReady

	if strings.TrimSpace(statement) == "" {
		return p.fail(rsql.EmptyStatementError())
	}
	if limit := p.config.MaxStatementLength; limit > 0 && len(statement) > limit {
		return p.fail(&rsql.ParseError{
			Kind:     rsql.ErrorKindSyntax,
			Type:     rsql.TypeSyntaxError,
			Message:  fmt.Sprintf("statement is %d bytes long, the limit is %d", len(statement), limit),
			Position: limit,
		})
	}

	parser := rsql.NewParserWithReporter(statement, &p.reporter)
	parser.SetLogger(p.log)
	stmt, err := parser.Parse()
	if err != nil {
		return p.fail(asParseError(err))
	}

	switch st := stmt.(type) {
	case *rsql.SelectStatement:
		b := binder.New(p.catalog, binder.WithConfig(p.config), binder.WithLogger(p.log))
		desc, err := b.Build(st)
		if err != nil {
			return p.fail(asParseError(err))
		}
		p.op = rsql.OpSelect
		p.query = desc
	case *rsql.CreateTableStatement:
		p.op = rsql.OpCreateTable
		p.table = st.Table
	default:
		return p.fail(rsql.NewImplementationError(fmt.Sprintf("no builder for %T", stmt)))
	}
	p.log.Debug("parsed %s statement", p.op)
	return true
}

func asParseError(err error) *rsql.ParseError {
	var pe *rsql.ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return rsql.NewImplementationError(err.Error())
}

// fail records err, switches the operation to Error and drops partial results.
func (p *Parser) fail(err *rsql.ParseError) bool {
	reported := p.reporter.Report(err)
	p.op = rsql.OpError
	p.query = nil
	p.table = nil
	p.log.Warn("%s", reported.Error())
	return false
}

// Operation 返回上一次解析的操作码
func (p *Parser) Operation() rsql.Operation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.op
}

// OperationString 返回操作码名称，如"Select"、"Error"、"None"
func (p *Parser) OperationString() string {
	return p.Operation().String()
}

// ParseError 返回上一次解析的错误，成功时返回nil
func (p *Parser) ParseError() *rsql.ParseError {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reporter.Err()
}

// Statement 返回上一次解析的语句文本
func (p *Parser) Statement() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statement
}

// State 返回会话状态
func (p *Parser) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// TakeQuery 返回SELECT语句的查询描述符并转移所有权，再次调用返回nil。
func (p *Parser) TakeQuery() *query.Descriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	q := p.query
	p.query = nil
	return q
}

// TakeTable 返回CREATE TABLE语句定义的表并转移所有权，再次调用返回nil。
func (p *Parser) TakeTable() *schema.TableSchema {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.table
	p.table = nil
	return t
}

// Finish 把上一次解析的结果整体转交给调用方并使会话回到Idle状态。
// 解析失败时返回该错误。
func (p *Parser) Finish() (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Idle {
		return nil, errors.New("no statement parsed")
	}
	if err := p.reporter.Err(); err != nil {
		p.clear()
		return nil, err
	}
	if p.query == nil && p.table == nil {
		p.clear()
		return nil, errors.New("result already taken")
	}
	res := &Result{Operation: p.op, Query: p.query, Table: p.table}
	p.clear()
	return res, nil
}

// Clear 清除解析状态，回到Idle状态
func (p *Parser) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clear()
}

func (p *Parser) clear() {
	p.state = Idle
	p.statement = ""
	p.op = rsql.OpNone
	p.query = nil
	p.table = nil
	p.reporter.Reset()
}

// ParseQuery 使用一次性会话解析SELECT语句并返回查询描述符。
//
// 示例:
//
//	desc, err := sqlquery.ParseQuery(catalog, "SELECT * FROM persons")
func ParseQuery(catalog schema.Catalog, statement string, options ...Option) (*query.Descriptor, error) {
	p := New(catalog, options...)
	p.Parse(statement)
	res, err := p.Finish()
	if err != nil {
		return nil, err
	}
	if res.Query == nil {
		return nil, fmt.Errorf("%s statement is not a query", res.Operation)
	}
	return res.Query, nil
}
