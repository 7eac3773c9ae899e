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

import "fmt"

// Binding powers of the binary and postfix operators, lowest first.
// Prefix operators bind tighter than all of them.
const (
	precNone = iota
	precOr
	precAnd
	precXor
	precRelational
	precIsNull
	precShift
	precAdditive
	precMultiplicative
)

// binaryOperator inspects the tokens at the cursor and returns the infix operator
// they spell, its precedence and the number of tokens it spans.
func (p *Parser) binaryOperator() (op TokenType, prec int, width int) {
	switch tok := p.cur(); tok.Type {
	case TokenOR:
		return TokenOR, precOr, 1
	case TokenAND:
		return TokenAND, precAnd, 1
	case TokenXOR:
		return TokenXOR, precXor, 1
	case TokenEQ, TokenNE, TokenNE2, TokenLT, TokenLE, TokenGT, TokenGE,
		TokenLIKE, TokenIN, TokenBETWEEN:
		return tok.Type, precRelational, 1
	case TokenSIMILAR:
		if p.peek(1).Type == TokenTO {
			return TokenSimilarTo, precRelational, 2
		}
	case TokenNOT:
		switch p.peek(1).Type {
		case TokenLIKE:
			return TokenNotLike, precRelational, 2
		case TokenBETWEEN:
			return TokenNotBetween, precRelational, 2
		case TokenSIMILAR:
			if p.peek(2).Type == TokenTO {
				return TokenNotSimilarTo, precRelational, 3
			}
		}
	case TokenShiftLeft, TokenShiftRight:
		return tok.Type, precShift, 1
	case TokenPlus, TokenMinus, TokenConcat, TokenAmpersand, TokenPipe:
		return tok.Type, precAdditive, 1
	case TokenSlash, TokenAsterisk, TokenPercent:
		return tok.Type, precMultiplicative, 1
	}
	return TokenNone, precNone, 0
}

func (p *Parser) parseExpr() (Expression, error) {
	return p.parseBinary(precOr)
}

// parseBinary parses operators binding at least as tightly as minPrec.
// All binary operators are left-associative.
func (p *Parser) parseBinary(minPrec int) (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur().Type == TokenIS && minPrec <= precIsNull {
			if left, err = p.parseIsNull(left); err != nil {
				return nil, err
			}
			continue
		}

		op, prec, width := p.binaryOperator()
		if op == TokenNone || prec < minPrec {
			return left, nil
		}
		for i := 0; i < width; i++ {
			p.advance()
		}

		if op == TokenBETWEEN || op == TokenNotBetween {
			if left, err = p.parseBetween(op == TokenNotBetween, left); err != nil {
				return nil, err
			}
			continue
		}

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, op, right)
	}
}

// parseIsNull parses the postfix "IS [NOT] NULL" applied to arg.
func (p *Parser) parseIsNull(arg Expression) (Expression, error) {
	p.advance() // IS
	op := TokenIsNull
	if p.cur().Type == TokenNOT {
		p.advance()
		op = TokenIsNotNull
	}
	if p.cur().Type != TokenNULL {
		return nil, p.syntaxError("NULL")
	}
	p.advance()
	return &UnaryExpr{Op: op, Arg: arg}, nil
}

// parseBetween parses "low AND high" after [NOT] BETWEEN. The bounds bind tighter
// than relational operators so the AND is never taken as a logical operator.
func (p *Parser) parseBetween(not bool, subject Expression) (Expression, error) {
	low, err := p.parseBinary(precIsNull)
	if err != nil {
		return nil, err
	}
	if p.cur().Type != TokenAND {
		return nil, p.syntaxError("AND")
	}
	p.advance()
	high, err := p.parseBinary(precIsNull)
	if err != nil {
		return nil, err
	}
	return NewBetween(not, subject, low, high), nil
}

// parseUnary parses the right-associative prefix operators - + ~ NOT.
func (p *Parser) parseUnary() (Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch op := p.cur().Type; op {
	case TokenMinus, TokenPlus, TokenTilde, TokenNOT:
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Arg: arg}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenIdent:
		return p.parseIdentifier()
	case TokenParameter:
		p.advance()
		bracketed := tok.Pos < len(p.input) && p.input[tok.Pos] == '['
		return &QueryParameterExpr{Message: tok.Value, Bracketed: bracketed, Pos: tok.Pos}, nil
	case TokenLParen:
		return p.parseParenthesized()
	case TokenNULL:
		p.advance()
		return NewNullConst(), nil
	case TokenString:
		p.advance()
		return NewStringConst(tok.Value), nil
	case TokenInteger:
		c, err := NewIntegerConst(tok.Value)
		if err != nil {
			return nil, p.fail(errorAt(ErrorKindNumericRange, TypeSyntaxError, err.Error(), tok))
		}
		p.advance()
		return c, nil
	case TokenReal:
		c, err := NewRealConst(tok.Value)
		if err != nil {
			return nil, p.fail(errorAt(ErrorKindNumericRange, TypeSyntaxError, err.Error(), tok))
		}
		p.advance()
		return c, nil
	case TokenDate, TokenTime, TokenDateTime:
		c, err := NewDateTimeConst(tok.Type, tok.Value)
		if err != nil {
			return nil, p.fail(errorAt(ErrorKindSyntax, TypeSyntaxError, err.Error(), tok))
		}
		p.advance()
		return c, nil
	case TokenDISTINCT:
		// DISTINCT(expr) yields expr unchanged
		p.advance()
		if p.cur().Type != TokenLParen {
			return nil, p.syntaxError("(")
		}
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur().Type != TokenRParen {
			return nil, p.syntaxError(")")
		}
		p.advance()
		p.log.Debug("DISTINCT is not recorded for %s", expr)
		return expr, nil
	}
	return nil, p.syntaxError("expression")
}

// parseIdentifier parses name, table.name and name(args).
func (p *Parser) parseIdentifier() (Expression, error) {
	tok := p.cur()
	p.advance()
	switch p.cur().Type {
	case TokenLParen:
		p.advance()
		args, err := p.parseCallArguments()
		if err != nil {
			return nil, err
		}
		return NewFunction(tok.Value, args, tok.Pos), nil
	case TokenDot:
		p.advance()
		fieldTok := p.cur()
		if fieldTok.Type != TokenIdent {
			return nil, p.syntaxError("field name")
		}
		p.advance()
		return NewVariable(tok.Value+"."+fieldTok.Value, tok.Pos), nil
	}
	return NewVariable(tok.Value, tok.Pos), nil
}

// parseCallArguments parses the argument list after "(" through the closing ")".
// A lone "*" is accepted as in COUNT(*).
func (p *Parser) parseCallArguments() (*NAryExpr, error) {
	args := NewArgumentList()
	switch tok := p.cur(); tok.Type {
	case TokenRParen:
		p.advance()
		return args, nil
	case TokenAsterisk:
		if p.peek(1).Type == TokenRParen {
			p.advance()
			p.advance()
			args.Add(NewVariable("*", tok.Pos))
			return args, nil
		}
	}
	if err := p.parseArgumentList(args); err != nil {
		return nil, err
	}
	if p.cur().Type != TokenRParen {
		return nil, p.syntaxError(")")
	}
	p.advance()
	return args, nil
}

// parseArgumentList appends comma separated expressions to list.
func (p *Parser) parseArgumentList(list *NAryExpr) error {
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return err
		}
		list.Add(expr)
		if p.cur().Type != TokenComma {
			return nil
		}
		p.advance()
	}
}

// parseParenthesized parses "(expr)" into a parenthesis node and "(a, b, ...)"
// into a value list.
func (p *Parser) parseParenthesized() (Expression, error) {
	p.advance() // (
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var result Expression = &UnaryExpr{Op: TokenLParen, Arg: first}
	if p.cur().Type == TokenComma {
		p.advance()
		list := NewArgumentList(first)
		list.Op = TokenLParen
		if err := p.parseArgumentList(list); err != nil {
			return nil, err
		}
		result = list
	}
	if p.cur().Type != TokenRParen {
		return nil, p.syntaxError(")")
	}
	p.advance()
	return result, nil
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return p.fail(errorAt(ErrorKindSyntax, TypeSyntaxError,
			fmt.Sprintf("expression nesting exceeds %d levels", maxNesting), p.cur()))
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}
