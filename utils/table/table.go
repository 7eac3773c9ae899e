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

// Package table renders rows of text as a bordered plain-text table.
package table

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const minWidth = 4

// Write renders headers and rows to w followed by a "(n rows)" line. Rows
// shorter than headers are padded with empty cells; extra cells are dropped.
func Write(w io.Writer, headers []string, rows [][]string) error {
	widths := columnWidths(headers, rows)

	var sb strings.Builder
	writeBorder(&sb, widths)
	writeRow(&sb, widths, headers)
	writeBorder(&sb, widths)
	for _, row := range rows {
		writeRow(&sb, widths, row)
	}
	writeBorder(&sb, widths)
	fmt.Fprintf(&sb, "(%d rows)\n", len(rows))

	_, err := io.WriteString(w, sb.String())
	return err
}

// Format returns the table Write would produce.
func Format(headers []string, rows [][]string) string {
	var sb strings.Builder
	_ = Write(&sb, headers, rows)
	return sb.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(minWidth, utf8.RuneCountInString(h))
		for _, row := range rows {
			if i < len(row) {
				widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
			}
		}
	}
	return widths
}

func writeBorder(sb *strings.Builder, widths []int) {
	sb.WriteString("+")
	for _, width := range widths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
}

func writeRow(sb *strings.Builder, widths []int, cells []string) {
	sb.WriteString("|")
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(cell)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
