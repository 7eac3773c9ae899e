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
Package types holds the configuration shared by the parse session and the binder.

	cfg := types.NewConfig()
	cfg.ValidateExpressions = true

	// or from a document
	cfg, err := types.LoadConfig(strings.NewReader("allowTableNameCoveredByAlias: true"))

Fields:

	ValidateExpressions           bind variables nested in computed columns and WHERE
	AllowTableNameCoveredByAlias  accept "t.f" when every occurrence of t is aliased
	MaxStatementLength            reject statements longer than this many bytes (0 = unlimited)
	LogLevel                      DEBUG, INFO, WARN, ERROR or OFF
*/
package types
