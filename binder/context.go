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

package binder

import (
	"sort"
	"strings"
)

// BindingContext records, for every table name or alias written in FROM, the
// positions at which it appears. Keys keep the spelling they were written with.
type BindingContext struct {
	positions map[string][]int
	order     []string
}

// NewBindingContext creates an empty context.
func NewBindingContext() *BindingContext {
	return &BindingContext{positions: make(map[string][]int)}
}

// Add appends position to the list kept for name.
func (c *BindingContext) Add(name string, position int) {
	if _, ok := c.positions[name]; !ok {
		c.order = append(c.order, name)
	}
	c.positions[name] = append(c.positions[name], position)
}

// Positions returns the positions recorded for name. Catalogue names are
// case-insensitive, so a name with no exact entry matches every key equal to it
// under case folding.
func (c *BindingContext) Positions(name string) []int {
	if p, ok := c.positions[name]; ok {
		return p
	}
	var merged []int
	for _, key := range c.order {
		if strings.EqualFold(key, name) {
			merged = append(merged, c.positions[key]...)
		}
	}
	sort.Ints(merged)
	return merged
}

// Repeated returns the names that appear more than once, in first-seen order.
func (c *BindingContext) Repeated() []string {
	var names []string
	for _, key := range c.order {
		if len(c.positions[key]) > 1 {
			names = append(names, key)
		}
	}
	return names
}

// Len returns the number of distinct names.
func (c *BindingContext) Len() int {
	return len(c.order)
}
