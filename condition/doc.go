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
Package condition evaluates the WHERE clause of a bound query against rows.

The WHERE expression is translated to expr-lang source and compiled once;
the compiled program is then run per row.

	desc, _ := sqlquery.ParseQuery(catalog, "SELECT * FROM persons WHERE name LIKE 'J%' AND age BETWEEN 18 AND 65")
	cond, err := condition.Compile(desc)
	if err != nil {
		return err
	}
	ok, err := cond.Evaluate(condition.Row{"name": "John", "age": 30})

Translation:

	=, <>, !=            ==, !=
	AND, OR, XOR, NOT    &&, ||, !=, !
	LIKE, NOT LIKE       like_match(a, b), !like_match(a, b)
	SIMILAR TO           similar_match(a, b)
	IN (a, b)            x in [a, b]
	BETWEEN a AND b      x >= a && x <= b
	IS [NOT] NULL        x == nil, x != nil
	||                   sql_concat(a, b)
	a / b                sql_div(a, b), integer division when both are integers
	& | << >> ~          bit_and, bit_or, bit_shl, bit_shr, bit_not
	:name, [message]     the value passed with WithParams

Aggregate functions cannot be evaluated per row and are rejected.
*/
package condition
