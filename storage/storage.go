/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package storage keeps table sources by name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Comcast/choose/table"
)

// NotFound is returned when a named table doesn't exist.
var NotFound = errors.New("table not found")

// Storage is a persistence interface for table sources.
//
// Sources are stored as given.  Callers that want to reject bad
// tables should Parse and Compile them before calling PutTable.
type Storage interface {
	Open(ctx context.Context) error

	Close(ctx context.Context) error

	PutTable(ctx context.Context, name string, src []byte) error

	// GetTable returns NotFound if there is no such table.
	GetTable(ctx context.Context, name string) ([]byte, error)

	// RemTable returns NotFound if there is no such table.
	RemTable(ctx context.Context, name string) error

	// ListTables returns the sorted names of all tables.
	ListTables(ctx context.Context) ([]string, error)
}

// LoadTable gets and parses the named table.
//
// The Table still needs to be Compile()ed.
func LoadTable(ctx context.Context, s Storage, name string) (*table.Table, error) {
	src, err := s.GetTable(ctx, name)
	if err != nil {
		return nil, err
	}
	t, err := table.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	return t, nil
}

// Memory is a Storage that forgets everything when the process
// exits.
type Memory struct {
	sync.RWMutex

	tables map[string][]byte
}

// NewMemory makes an empty Memory.
func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string][]byte, 8),
	}
}

func (s *Memory) Open(ctx context.Context) error {
	return nil
}

func (s *Memory) Close(ctx context.Context) error {
	return nil
}

func (s *Memory) PutTable(ctx context.Context, name string, src []byte) error {
	s.Lock()
	s.tables[name] = append([]byte(nil), src...)
	s.Unlock()
	return nil
}

func (s *Memory) GetTable(ctx context.Context, name string) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()
	src, have := s.tables[name]
	if !have {
		return nil, NotFound
	}
	return append([]byte(nil), src...), nil
}

func (s *Memory) RemTable(ctx context.Context, name string) error {
	s.Lock()
	defer s.Unlock()
	if _, have := s.tables[name]; !have {
		return NotFound
	}
	delete(s.tables, name)
	return nil
}

func (s *Memory) ListTables(ctx context.Context) ([]string, error) {
	s.RLock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	s.RUnlock()
	sort.Strings(names)
	return names, nil
}
