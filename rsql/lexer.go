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

import "strings"

// Lexer turns statement text into a pull-style token stream.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	line    int
	column  int

	// start position of the token being scanned
	tokPos    int
	tokLine   int
	tokColumn int
}

// NewLexer creates a lexer positioned at the first character of input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// NextToken returns the next token. At end of input it keeps returning TokenEOF.
// Malformed input produces a TokenIllegal whose Value is the offending text.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()
	l.tokPos, l.tokLine, l.tokColumn = l.pos, l.line, l.column

	switch l.ch {
	case 0:
		if l.pos >= len(l.input) {
			return l.token(TokenEOF, "")
		}
		l.readChar()
		return l.token(TokenIllegal, "\x00")
	case ',':
		return l.single(TokenComma)
	case ';':
		return l.single(TokenSemicolon)
	case '(':
		return l.single(TokenLParen)
	case ')':
		return l.single(TokenRParen)
	case '+':
		return l.single(TokenPlus)
	case '-':
		return l.single(TokenMinus)
	case '*':
		return l.single(TokenAsterisk)
	case '/':
		return l.single(TokenSlash)
	case '%':
		return l.single(TokenPercent)
	case '&':
		return l.single(TokenAmpersand)
	case '~':
		return l.single(TokenTilde)
	case '=':
		if l.peekChar() == '=' {
			return l.double(TokenEQ)
		}
		return l.single(TokenEQ)
	case '|':
		if l.peekChar() == '|' {
			return l.double(TokenConcat)
		}
		return l.single(TokenPipe)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(TokenLE)
		case '>':
			return l.double(TokenNE)
		case '<':
			return l.double(TokenShiftLeft)
		}
		return l.single(TokenLT)
	case '>':
		switch l.peekChar() {
		case '=':
			return l.double(TokenGE)
		case '>':
			return l.double(TokenShiftRight)
		}
		return l.single(TokenGT)
	case '!':
		if l.peekChar() == '=' {
			return l.double(TokenNE2)
		}
		l.readChar()
		return l.token(TokenIllegal, "!")
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		return l.single(TokenDot)
	case '\'', '"':
		return l.readString(l.ch)
	case '`':
		return l.readQuotedIdentifier()
	case ':':
		l.readChar()
		if !isLetter(l.ch) {
			return l.token(TokenIllegal, ":")
		}
		return l.token(TokenParameter, l.readIdentifier())
	case '[':
		return l.readBracketParameter()
	case '#':
		return l.readDateTime()
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return l.token(LookupIdent(ident), ident)
	}
	if isDigit(l.ch) {
		return l.readNumber()
	}

	ch := l.ch
	l.readChar()
	return l.token(TokenIllegal, string(ch))
}

// Tokens scans the whole input. The returned slice always ends with a TokenEOF
// or a TokenIllegal token.
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenIllegal {
			return tokens
		}
	}
}

// Offset returns the current read offset.
func (l *Lexer) Offset() int {
	return l.pos
}

func (l *Lexer) token(t TokenType, value string) Token {
	return Token{Type: t, Value: value, Pos: l.tokPos, Line: l.tokLine, Column: l.tokColumn}
}

func (l *Lexer) single(t TokenType) Token {
	value := string(l.ch)
	l.readChar()
	return l.token(t, value)
}

func (l *Lexer) double(t TokenType) Token {
	value := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return l.token(t, value)
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readNumber() Token {
	pos := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		return l.token(TokenReal, l.input[pos:l.pos])
	}
	if isLetter(l.ch) {
		// 123abc
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		return l.token(TokenIllegal, l.input[pos:l.pos])
	}
	return l.token(TokenInteger, l.input[pos:l.pos])
}

// readString reads a quoted string; a doubled quote character is an escaped quote.
func (l *Lexer) readString(quote byte) Token {
	start := l.pos
	l.readChar()
	var sb strings.Builder
	for {
		if l.atEnd() {
			return l.token(TokenIllegal, l.input[start:])
		}
		if l.ch == quote {
			if l.peekChar() == quote {
				sb.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return l.token(TokenString, sb.String())
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
}

func (l *Lexer) readQuotedIdentifier() Token {
	start := l.pos
	l.readChar()
	pos := l.pos
	for l.ch != '`' {
		if l.atEnd() {
			return l.token(TokenIllegal, l.input[start:])
		}
		l.readChar()
	}
	name := l.input[pos:l.pos]
	l.readChar()
	if name == "" {
		return l.token(TokenIllegal, "``")
	}
	tok := l.token(TokenIdent, name)
	tok.Quoted = true
	return tok
}

// readBracketParameter reads a [message] query parameter.
func (l *Lexer) readBracketParameter() Token {
	start := l.pos
	l.readChar()
	pos := l.pos
	for l.ch != ']' {
		if l.atEnd() || l.ch == '\n' {
			return l.token(TokenIllegal, l.input[start:l.pos])
		}
		l.readChar()
	}
	message := l.input[pos:l.pos]
	l.readChar()
	return l.token(TokenParameter, message)
}

// readDateTime reads #YYYY-MM-DD#, #HH:MM[:SS]# and #YYYY-MM-DD HH:MM[:SS]# constants.
// The value is validated by the grammar.
func (l *Lexer) readDateTime() Token {
	start := l.pos
	l.readChar()
	pos := l.pos
	for l.ch != '#' {
		if l.atEnd() || l.ch == '\n' {
			return l.token(TokenIllegal, l.input[start:l.pos])
		}
		l.readChar()
	}
	text := strings.TrimSpace(l.input[pos:l.pos])
	l.readChar()
	hasDate := strings.Contains(text, "-")
	hasTime := strings.Contains(text, ":")
	switch {
	case hasDate && hasTime:
		return l.token(TokenDateTime, text)
	case hasDate:
		return l.token(TokenDate, text)
	case hasTime:
		return l.token(TokenTime, text)
	}
	return l.token(TokenIllegal, l.input[start:l.pos])
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && !l.atEnd() {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !l.atEnd() && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if !l.atEnd() {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
