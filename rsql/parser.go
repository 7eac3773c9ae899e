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
	"fmt"
	"strconv"
	"strings"

	"github.com/rulego/sqlquery/logger"
	"github.com/rulego/sqlquery/schema"
)

// maxNesting bounds the recursion depth of the expression grammar.
const maxNesting = 512

// Parser is the grammar state for one statement. It is not safe for concurrent use;
// create one Parser per statement.
type Parser struct {
	input    string
	tokens   []Token
	pos      int
	depth    int
	reporter *Reporter
	log      logger.Logger
}

// NewParser creates a parser for input. Errors are recorded in a fresh Reporter.
func NewParser(input string) *Parser {
	return NewParserWithReporter(input, &Reporter{})
}

// NewParserWithReporter creates a parser that records errors in reporter.
func NewParserWithReporter(input string, reporter *Reporter) *Parser {
	return &Parser{
		input:    input,
		tokens:   NewLexer(input).Tokens(),
		reporter: reporter,
		log:      logger.GetDefault(),
	}
}

// SetLogger replaces the logger used for grammar diagnostics.
func (p *Parser) SetLogger(log logger.Logger) {
	if log != nil {
		p.log = log
	}
}

// Reporter returns the error reporter of the parser.
func (p *Parser) Reporter() *Reporter {
	return p.reporter
}

// Parse parses a single statement, optionally terminated by ';'.
// The returned error is always a *ParseError.
func (p *Parser) Parse() (Statement, error) {
	if strings.TrimSpace(p.input) == "" || p.cur().Type == TokenEOF {
		return nil, p.fail(EmptyStatementError())
	}

	var stmt Statement
	var err error
	switch tok := p.cur(); tok.Type {
	case TokenSELECT:
		stmt, err = p.parseSelect()
	case TokenCREATE:
		stmt, err = p.parseCreateTable()
	case TokenALTER, TokenINSERT, TokenUPDATE, TokenDELETE:
		stmt = &UnsupportedStatement{Op: unsupportedOperation(tok.Type), Keyword: tok}
		return stmt, p.fail(errorAt(ErrorKindUnsupportedStatement, TypeError,
			fmt.Sprintf("%s statements are not supported", strings.ToUpper(tok.Value)), tok))
	default:
		return nil, p.syntaxError("SELECT or CREATE TABLE")
	}
	if err != nil {
		return nil, err
	}

	if p.cur().Type == TokenSemicolon {
		p.advance()
	}
	if p.cur().Type != TokenEOF {
		return nil, p.syntaxError("end of statement")
	}
	return stmt, nil
}

func unsupportedOperation(t TokenType) Operation {
	switch t {
	case TokenALTER:
		return OpAlterTable
	case TokenINSERT:
		return OpInsert
	case TokenUPDATE:
		return OpUpdate
	}
	return OpDelete
}

// ParseExpression parses input as a single expression.
func (p *Parser) ParseExpression() (Expression, error) {
	if p.cur().Type == TokenEOF {
		return nil, p.fail(newError(ErrorKindEmptyStatement, TypeError, "No expression specified", "", -1))
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != TokenEOF {
		return nil, p.syntaxError("end of expression")
	}
	return expr, nil
}

// ParseExpression is a convenience wrapper around Parser.ParseExpression.
func ParseExpression(input string) (Expression, error) {
	return NewParser(input).ParseExpression()
}

// Parse is a convenience wrapper around Parser.Parse.
func Parse(input string) (Statement, error) {
	return NewParser(input).Parse()
}

// parseSelect 解析SELECT语句
func (p *Parser) parseSelect() (*SelectStatement, error) {
	p.advance() // SELECT
	stmt := &SelectStatement{}

	switch p.cur().Type {
	case TokenFROM, TokenWHERE, TokenORDER, TokenEOF, TokenSemicolon:
		// no column list
	default:
		columns, err := p.parseColumnList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = columns
		p.log.Debug("select columns: %s", columns)
	}

	if p.cur().Type == TokenFROM {
		tables, err := p.parseTableList()
		if err != nil {
			return nil, err
		}
		stmt.Tables = tables
	}

	options, err := p.parseSelectOptions()
	if err != nil {
		return nil, err
	}
	stmt.Options = options
	return stmt, nil
}

func (p *Parser) parseColumnList() (*NAryExpr, error) {
	columns := NewArgumentList()
	for {
		item, err := p.parseColumnItem()
		if err != nil {
			return nil, err
		}
		columns.Add(item)
		if p.cur().Type != TokenComma {
			return columns, nil
		}
		p.advance()
	}
}

// parseColumnItem parses "*", "table.*", or an expression with an optional alias.
func (p *Parser) parseColumnItem() (Expression, error) {
	tok := p.cur()
	if tok.Type == TokenAsterisk {
		p.advance()
		p.log.Debug("added column wildcard: *")
		return NewVariable("*", tok.Pos), nil
	}
	if tok.Type == TokenIdent && p.peek(1).Type == TokenDot && p.peek(2).Type == TokenAsterisk {
		p.advance()
		p.advance()
		p.advance()
		p.log.Debug("added column wildcard: %s.*", tok.Value)
		return NewVariable(tok.Value+".*", tok.Pos), nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	switch alias := p.cur(); alias.Type {
	case TokenAS:
		p.advance()
		aliasTok := p.cur()
		switch aliasTok.Type {
		case TokenIdent:
			p.advance()
			return NewAlias(expr, true, NewVariable(aliasTok.Value, aliasTok.Pos)), nil
		case TokenString:
			// kept so the binder can reject it as an invalid alias
			p.advance()
			return NewAlias(expr, true, NewStringConst(aliasTok.Value)), nil
		}
		return nil, p.syntaxError("alias name")
	case TokenIdent:
		p.advance()
		return NewAlias(expr, false, NewVariable(alias.Value, alias.Pos)), nil
	}
	p.log.Debug("added column expr: %s", expr)
	return expr, nil
}

// parseTableList 解析FROM子句的表和别名
func (p *Parser) parseTableList() (*NAryExpr, error) {
	p.advance() // FROM
	tables := NewTableList()
	for {
		nameTok := p.cur()
		if nameTok.Type != TokenIdent {
			return nil, p.syntaxError("table name")
		}
		p.advance()
		var item Expression = NewVariable(nameTok.Value, nameTok.Pos)

		withAS := false
		if p.cur().Type == TokenAS {
			withAS = true
			p.advance()
			if p.cur().Type != TokenIdent {
				return nil, p.syntaxError("table alias")
			}
		}
		if aliasTok := p.cur(); aliasTok.Type == TokenIdent {
			p.advance()
			item = NewAlias(item, withAS, NewVariable(aliasTok.Value, aliasTok.Pos))
		}
		p.log.Debug("FROM: %s", item)
		tables.Add(item)

		if p.cur().Type != TokenComma {
			return tables, nil
		}
		p.advance()
	}
}

// parseSelectOptions parses WHERE and ORDER BY, accepted in either order.
func (p *Parser) parseSelectOptions() (*SelectOptions, error) {
	var options *SelectOptions
	seenWhere, seenOrder := false, false
	for {
		switch tok := p.cur(); tok.Type {
		case TokenWHERE:
			if seenWhere {
				return nil, p.syntaxError("")
			}
			seenWhere = true
			p.advance()
			where, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if options == nil {
				options = &SelectOptions{}
			}
			options.Where = where
			p.log.Debug("WHERE: %s", where)
		case TokenORDER:
			if seenOrder {
				return nil, p.syntaxError("")
			}
			seenOrder = true
			items, err := p.parseOrderBy()
			if err != nil {
				return nil, err
			}
			if options == nil {
				options = &SelectOptions{}
			}
			options.OrderBy = items
		default:
			return options, nil
		}
	}
}

// parseOrderBy 解析ORDER BY子句，按书写顺序追加排序项
func (p *Parser) parseOrderBy() ([]OrderByItem, error) {
	p.advance() // ORDER
	if p.cur().Type != TokenBY {
		return nil, p.syntaxError("BY")
	}
	p.advance()

	var items []OrderByItem
	for {
		tok := p.cur()
		item := OrderByItem{Ascending: true, Pos: tok.Pos}
		switch tok.Type {
		case TokenIdent:
			p.advance()
			item.Name = tok.Value
			if p.cur().Type == TokenDot {
				p.advance()
				fieldTok := p.cur()
				if fieldTok.Type != TokenIdent {
					return nil, p.syntaxError("field name")
				}
				p.advance()
				item.Name += "." + fieldTok.Value
			}
		case TokenInteger:
			p.advance()
			// a position too large for int cannot name a column
			n, err := strconv.Atoi(tok.Value)
			if err != nil {
				return nil, p.fail(errorAt(ErrorKindOrderByPositionOutOfRange, TypeError,
					fmt.Sprintf("Could not define sorting - no column at position %s", tok.Value), tok))
			}
			item.Position = n
			item.ByPosition = true
		default:
			return nil, p.syntaxError("column name or position")
		}

		switch p.cur().Type {
		case TokenASC:
			p.advance()
		case TokenDESC:
			p.advance()
			item.Ascending = false
		}
		p.log.Debug("ORDER BY item: %s", item)
		items = append(items, item)

		if p.cur().Type != TokenComma {
			return items, nil
		}
		p.advance()
	}
}

// parseCreateTable parses
//
//	CREATE TABLE name (field type[(length)] [PRIMARY KEY] [NOT NULL] [AUTO_INCREMENT], ...)
func (p *Parser) parseCreateTable() (*CreateTableStatement, error) {
	p.advance() // CREATE
	if p.cur().Type != TokenTABLE {
		return nil, p.syntaxError("TABLE")
	}
	p.advance()
	nameTok := p.cur()
	if nameTok.Type != TokenIdent {
		return nil, p.syntaxError("table name")
	}
	p.advance()
	table, _ := schema.NewTableSchema(nameTok.Value)

	if p.cur().Type != TokenLParen {
		return nil, p.syntaxError("(")
	}
	p.advance()
	for {
		field, err := p.parseFieldDefinition()
		if err != nil {
			return nil, err
		}
		if err := table.AddField(field); err != nil {
			return nil, p.fail(NewError(ErrorKindInvalidColumnDefinition,
				fmt.Sprintf("Field \"%s\" is already defined", field.Name), field.Name, -1))
		}
		p.log.Debug("adding field %s", field.Name)
		if p.cur().Type != TokenComma {
			break
		}
		p.advance()
	}
	if p.cur().Type != TokenRParen {
		return nil, p.syntaxError(")")
	}
	p.advance()
	return &CreateTableStatement{Table: table}, nil
}

// parseFieldDefinition 解析字段定义
func (p *Parser) parseFieldDefinition() (*schema.Field, error) {
	nameTok := p.cur()
	if nameTok.Type != TokenIdent {
		return nil, p.syntaxError("field name")
	}
	p.advance()
	// a missing type is accepted for SQLite compatibility
	field := schema.NewField(nameTok.Value, schema.InvalidType)

	if typeTok := p.cur(); typeTok.Type == TokenIdent {
		t, ok := schema.TypeFromName(typeTok.Value)
		if !ok {
			return nil, p.fail(errorAt(ErrorKindSyntax, TypeSyntaxError,
				fmt.Sprintf("unknown field type \"%s\"", typeTok.Value), typeTok))
		}
		p.advance()
		field.Type = t
		if p.cur().Type == TokenLParen {
			p.advance()
			lenTok := p.cur()
			if lenTok.Type != TokenInteger {
				return nil, p.syntaxError("field length")
			}
			n, err := strconv.Atoi(lenTok.Value)
			if err != nil {
				return nil, p.fail(errorAt(ErrorKindNumericRange, TypeSyntaxError,
					fmt.Sprintf("integer constant %s is out of range", lenTok.Value), lenTok))
			}
			p.advance()
			if p.cur().Type != TokenRParen {
				return nil, p.syntaxError(")")
			}
			p.advance()
			field.Length = n
		}
	}

	for {
		switch p.cur().Type {
		case TokenPRIMARY:
			p.advance()
			if p.cur().Type != TokenKEY {
				return nil, p.syntaxError("KEY")
			}
			p.advance()
			field.PrimaryKey = true
		case TokenNOT:
			p.advance()
			if p.cur().Type != TokenNULL {
				return nil, p.syntaxError("NULL")
			}
			p.advance()
			field.NotNull = true
		case TokenAutoIncrement:
			p.advance()
			field.AutoIncrement = true
		default:
			return field, nil
		}
	}
}

func (p *Parser) cur() Token {
	return p.peek(0)
}

// peek returns the token n positions ahead; past the end it returns the final token.
func (p *Parser) peek(n int) Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// fail records err in the reporter and returns the error that won.
func (p *Parser) fail(err *ParseError) error {
	return p.reporter.Report(err)
}

// syntaxError reports the current token as unexpected.
func (p *Parser) syntaxError(expected string) error {
	tok := p.cur()
	if tok.Type == TokenIllegal {
		return p.fail(LexicalErrorAt(tok))
	}
	return p.fail(SyntaxErrorAt(tok, expected))
}
