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

package schema

import "strings"

// FieldType is the data type of a table field or of a constant.
type FieldType int

const (
	InvalidType FieldType = iota
	Byte
	ShortInteger
	Integer
	BigInteger
	Boolean
	Date
	DateTime
	Time
	Float
	Double
	Text
	LongText
	BLOB
	// Null is the type of the NULL constant.
	Null
)

var fieldTypeNames = [...]string{
	InvalidType:  "InvalidType",
	Byte:         "Byte",
	ShortInteger: "ShortInteger",
	Integer:      "Integer",
	BigInteger:   "BigInteger",
	Boolean:      "Boolean",
	Date:         "Date",
	DateTime:     "DateTime",
	Time:         "Time",
	Float:        "Float",
	Double:       "Double",
	Text:         "Text",
	LongText:     "LongText",
	BLOB:         "BLOB",
	Null:         "Null",
}

func (t FieldType) String() string {
	if t < 0 || int(t) >= len(fieldTypeNames) {
		return fieldTypeNames[InvalidType]
	}
	return fieldTypeNames[t]
}

// SQLName returns the type name used when rendering CREATE TABLE statements.
func (t FieldType) SQLName() string {
	switch t {
	case Byte:
		return "TINYINT"
	case ShortInteger:
		return "SMALLINT"
	case Integer:
		return "INTEGER"
	case BigInteger:
		return "BIGINT"
	case Boolean:
		return "BOOLEAN"
	case Date:
		return "DATE"
	case DateTime:
		return "DATETIME"
	case Time:
		return "TIME"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Text:
		return "VARCHAR"
	case LongText:
		return "LONGTEXT"
	case BLOB:
		return "BLOB"
	}
	return ""
}

// IsInteger reports whether t is one of the integral types.
func (t FieldType) IsInteger() bool {
	return t >= Byte && t <= BigInteger
}

// IsFloatingPoint reports whether t is Float or Double.
func (t FieldType) IsFloatingPoint() bool {
	return t == Float || t == Double
}

// IsText reports whether t holds character data.
func (t FieldType) IsText() bool {
	return t == Text || t == LongText
}

var sqlTypeNames = map[string]FieldType{
	"BYTE":      Byte,
	"TINYINT":   Byte,
	"SMALLINT":  ShortInteger,
	"SHORT":     ShortInteger,
	"INT":       Integer,
	"INTEGER":   Integer,
	"BIGINT":    BigInteger,
	"BOOL":      Boolean,
	"BOOLEAN":   Boolean,
	"DATE":      Date,
	"DATETIME":  DateTime,
	"TIMESTAMP": DateTime,
	"TIME":      Time,
	"FLOAT":     Float,
	"REAL":      Float,
	"DOUBLE":    Double,
	"CHAR":      Text,
	"VARCHAR":   Text,
	"TEXT":      Text,
	"STRING":    Text,
	"LONGTEXT":  LongText,
	"BLOB":      BLOB,
}

// TypeFromName maps an SQL type name (case-insensitive) or a FieldType name to a FieldType.
func TypeFromName(name string) (FieldType, bool) {
	if t, ok := sqlTypeNames[strings.ToUpper(name)]; ok {
		return t, true
	}
	for i, n := range fieldTypeNames {
		if strings.EqualFold(n, name) && FieldType(i) != InvalidType && FieldType(i) != Null {
			return FieldType(i), true
		}
	}
	return InvalidType, false
}
