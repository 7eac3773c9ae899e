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

// Package schema holds the table catalogue the binder resolves names against.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog resolves table names. Implementations must be safe for concurrent reads;
// the parser never mutates a catalogue.
type Catalog interface {
	// LookupTable returns the table called name.
	LookupTable(name string) (*TableSchema, bool)
}

// MemoryCatalog is a Catalog backed by a map. Table names are case-insensitive.
type MemoryCatalog struct {
	mu     sync.RWMutex
	tables map[string]*TableSchema
}

// NewMemoryCatalog creates a catalogue holding tables.
func NewMemoryCatalog(tables ...*TableSchema) *MemoryCatalog {
	c := &MemoryCatalog{tables: make(map[string]*TableSchema)}
	for _, t := range tables {
		// duplicates replace earlier definitions
		c.tables[strings.ToLower(t.Name)] = t
	}
	return c
}

// AddTable registers t, failing if a table with the same name exists.
func (c *MemoryCatalog) AddTable(t *TableSchema) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("cannot add a table without a name")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(t.Name)
	if _, exists := c.tables[key]; exists {
		return fmt.Errorf("table %q already exists", t.Name)
	}
	c.tables[key] = t
	return nil
}

// DropTable removes the table called name and reports whether it existed.
func (c *MemoryCatalog) DropTable(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(name)
	_, ok := c.tables[key]
	delete(c.tables, key)
	return ok
}

func (c *MemoryCatalog) LookupTable(name string) (*TableSchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[strings.ToLower(name)]
	return t, ok
}

// TableNames returns the registered table names sorted alphabetically.
func (c *MemoryCatalog) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
