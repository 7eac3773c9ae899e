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

// Package cast converts loosely typed configuration values (numbers written as
// strings, "yes"/"no" flags) into Go values.
package cast

import (
	"fmt"
	"strings"

	spfcast "github.com/spf13/cast"
)

// ToInt converts x to int. Empty strings and nil convert to 0.
func ToInt(x any) (int, error) {
	if s, ok := x.(string); ok {
		x = strings.TrimSpace(s)
		if x == "" {
			return 0, nil
		}
	}
	v, err := spfcast.ToIntE(x)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value %v: %w", x, err)
	}
	return v, nil
}

// ToInt64 converts x to int64.
func ToInt64(x any) (int64, error) {
	v, err := spfcast.ToInt64E(x)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value %v: %w", x, err)
	}
	return v, nil
}

// ToFloat converts x to float64.
func ToFloat(x any) (float64, error) {
	v, err := spfcast.ToFloat64E(x)
	if err != nil {
		return 0, fmt.Errorf("invalid number %v: %w", x, err)
	}
	return v, nil
}

// ToBool converts x to bool. Besides the strconv spellings it accepts yes/no and on/off.
func ToBool(x any) (bool, error) {
	if s, ok := x.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off", "":
			return false, nil
		}
	}
	v, err := spfcast.ToBoolE(x)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value %v: %w", x, err)
	}
	return v, nil
}

// ToString converts x to its string form; nil becomes "".
func ToString(x any) string {
	return spfcast.ToString(x)
}
