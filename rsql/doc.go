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
Package rsql turns SQL statement text into syntax trees.

The package contains the scanner, the statement grammar and the expression
grammar. It does not consult any table catalogue; name resolution happens in
the binder package.

# Statements

	SELECT [columns] [FROM table [[AS] alias], ...] [WHERE expr] [ORDER BY item [ASC|DESC], ...]
	CREATE TABLE name (field type[(length)] [PRIMARY KEY] [NOT NULL] [AUTO_INCREMENT], ...)

WHERE and ORDER BY may appear in either order. ALTER, INSERT, UPDATE and DELETE
are recognized and reported as unsupported.

# Expressions

Operators from lowest to highest precedence:

	OR
	AND
	XOR
	= <> != < <= > >= LIKE, NOT LIKE, IN, SIMILAR TO, NOT SIMILAR TO, [NOT] BETWEEN x AND y
	IS NULL, IS NOT NULL
	<< >>
	+ - || & |
	* / %
	unary - + ~ NOT

All binary operators are left-associative. Primary expressions are names,
table.name, :name and [message] query parameters, function calls, parenthesized
expressions, value lists "(a, b)", NULL, strings, integers, reals and
#date#, #time# and #date time# constants.

Integer constants take the narrowest of int32, uint32 and int64 that holds
them; larger values are rejected.

# Usage

	stmt, err := rsql.Parse("SELECT a, b AS c FROM t WHERE a > 1 ORDER BY 2 DESC")
	if err != nil {
		var pe *rsql.ParseError
		errors.As(err, &pe)
		fmt.Println(pe.Type, pe.Message)
	}
	sel := stmt.(*rsql.SelectStatement)
*/
package rsql
