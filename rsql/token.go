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

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	TokenNone TokenType = iota
	TokenEOF
	TokenIllegal

	// literals and names
	TokenIdent
	TokenInteger
	TokenReal
	TokenString
	TokenParameter
	TokenDate
	TokenTime
	TokenDateTime

	// punctuation
	TokenComma
	TokenDot
	TokenSemicolon
	TokenLParen
	TokenRParen

	// operators
	TokenPlus
	TokenMinus
	TokenAsterisk
	TokenSlash
	TokenPercent
	TokenAmpersand
	TokenPipe
	TokenTilde
	TokenConcat
	TokenShiftLeft
	TokenShiftRight
	TokenEQ
	TokenNE  // <>
	TokenNE2 // !=
	TokenLT
	TokenLE
	TokenGT
	TokenGE

	// keywords used by the grammar
	TokenSELECT
	TokenFROM
	TokenWHERE
	TokenORDER
	TokenBY
	TokenASC
	TokenDESC
	TokenAS
	TokenAND
	TokenOR
	TokenXOR
	TokenNOT
	TokenNULL
	TokenIS
	TokenLIKE
	TokenIN
	TokenSIMILAR
	TokenTO
	TokenBETWEEN
	TokenDISTINCT
	TokenCREATE
	TokenTABLE
	TokenPRIMARY
	TokenKEY
	TokenAutoIncrement
	TokenALTER
	TokenINSERT
	TokenUPDATE
	TokenDELETE

	// TokenKeyword is a reserved word the grammar does not build (GROUP, JOIN, UNION...).
	TokenKeyword

	// synthetic operator tokens, never produced by the lexer
	TokenIsNull
	TokenIsNotNull
	TokenNotLike
	TokenSimilarTo
	TokenNotSimilarTo
	TokenNotBetween
)

// Token is a single lexical unit with its source offset.
type Token struct {
	Type   TokenType
	Value  string
	Pos    int
	Line   int
	Column int
	// Quoted is set for `quoted` identifiers, which are never keywords.
	Quoted bool
}

var keywords = map[string]TokenType{
	"SELECT":         TokenSELECT,
	"FROM":           TokenFROM,
	"WHERE":          TokenWHERE,
	"ORDER":          TokenORDER,
	"BY":             TokenBY,
	"ASC":            TokenASC,
	"DESC":           TokenDESC,
	"AS":             TokenAS,
	"AND":            TokenAND,
	"OR":             TokenOR,
	"XOR":            TokenXOR,
	"NOT":            TokenNOT,
	"NULL":           TokenNULL,
	"IS":             TokenIS,
	"LIKE":           TokenLIKE,
	"IN":             TokenIN,
	"SIMILAR":        TokenSIMILAR,
	"TO":             TokenTO,
	"BETWEEN":        TokenBETWEEN,
	"DISTINCT":       TokenDISTINCT,
	"CREATE":         TokenCREATE,
	"TABLE":          TokenTABLE,
	"PRIMARY":        TokenPRIMARY,
	"KEY":            TokenKEY,
	"AUTO_INCREMENT": TokenAutoIncrement,
	"ALTER":          TokenALTER,
	"INSERT":         TokenINSERT,
	"UPDATE":         TokenUPDATE,
	"DELETE":         TokenDELETE,
}

// reservedWords are tokenized as TokenKeyword so that using them as names is diagnosed.
var reservedWords = map[string]struct{}{
	"ALL": {}, "ANY": {}, "CASE": {}, "CROSS": {}, "DEFAULT": {}, "ELSE": {}, "END": {},
	"EXISTS": {}, "FULL": {}, "GROUP": {}, "HAVING": {}, "INNER": {}, "INTO": {},
	"INTERSECT": {}, "JOIN": {}, "LEFT": {}, "LIMIT": {}, "NATURAL": {}, "OFFSET": {},
	"ON": {}, "OUTER": {}, "RIGHT": {}, "SET": {}, "THEN": {}, "UNION": {}, "UNIQUE": {},
	"USING": {}, "VALUES": {}, "WHEN": {}, "EXCEPT": {},
}

// LookupIdent returns the keyword token type for ident, or TokenIdent.
func LookupIdent(ident string) TokenType {
	upper := strings.ToUpper(ident)
	if tok, ok := keywords[upper]; ok {
		return tok
	}
	if _, ok := reservedWords[upper]; ok {
		return TokenKeyword
	}
	return TokenIdent
}

// IsReservedKeyword reports whether word cannot be used as an unquoted identifier.
func IsReservedKeyword(word string) bool {
	return LookupIdent(word) != TokenIdent
}

var aggregateFunctions = map[string]struct{}{
	"SUM": {}, "MIN": {}, "MAX": {}, "AVG": {}, "COUNT": {}, "STD": {}, "STDDEV": {}, "VARIANCE": {},
}

// IsAggregateFunction reports whether name is one of the built-in aggregates.
func IsAggregateFunction(name string) bool {
	_, ok := aggregateFunctions[strings.ToUpper(name)]
	return ok
}

var tokenText = map[TokenType]string{
	TokenEOF:          "end of statement",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenSemicolon:    ";",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenAsterisk:     "*",
	TokenSlash:        "/",
	TokenPercent:      "%",
	TokenAmpersand:    "&",
	TokenPipe:         "|",
	TokenTilde:        "~",
	TokenConcat:       "||",
	TokenShiftLeft:    "<<",
	TokenShiftRight:   ">>",
	TokenEQ:           "=",
	TokenNE:           "<>",
	TokenNE2:          "!=",
	TokenLT:           "<",
	TokenLE:           "<=",
	TokenGT:           ">",
	TokenGE:           ">=",
	TokenAND:          "AND",
	TokenOR:           "OR",
	TokenXOR:          "XOR",
	TokenNOT:          "NOT",
	TokenLIKE:         "LIKE",
	TokenIN:           "IN",
	TokenAS:           "AS",
	TokenIsNull:       "IS NULL",
	TokenIsNotNull:    "IS NOT NULL",
	TokenNotLike:      "NOT LIKE",
	TokenSimilarTo:    "SIMILAR TO",
	TokenNotSimilarTo: "NOT SIMILAR TO",
	TokenBETWEEN:      "BETWEEN",
	TokenNotBetween:   "NOT BETWEEN",
}

// String returns the SQL spelling of operator and punctuation tokens.
func (t TokenType) String() string {
	if s, ok := tokenText[t]; ok {
		return s
	}
	for k, v := range keywords {
		if v == t {
			return k
		}
	}
	switch t {
	case TokenIdent:
		return "identifier"
	case TokenInteger:
		return "integer constant"
	case TokenReal:
		return "real constant"
	case TokenString:
		return "string constant"
	case TokenParameter:
		return "query parameter"
	case TokenDate, TokenTime, TokenDateTime:
		return "date/time constant"
	case TokenKeyword:
		return "keyword"
	case TokenIllegal:
		return "illegal character"
	}
	return "unknown"
}
