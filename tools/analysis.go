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

// Package tools has utilities for documenting and checking tables.
package tools

import (
	"fmt"

	"github.com/Comcast/choose"
	"github.com/Comcast/choose/table"
)

// TableAnalysis is a summary of a Table with some warnings.
type TableAnalysis struct {
	Name string

	Cases int

	// Kinds counts bodies by Body.Kind(), with "" for empty
	// bodies.  The default is included.
	Kinds map[string]int

	HasDefault bool

	// Shadowed maps the index of a case that can never be
	// selected to the index of the earlier case that wins
	// instead.
	Shadowed map[int]int

	Warnings []string
}

// Analyze examines the given Table, which need not be compiled.
func Analyze(t *table.Table) *TableAnalysis {
	a := &TableAnalysis{
		Name:       t.Name,
		Cases:      len(t.Cases),
		Kinds:      make(map[string]int, 4),
		HasDefault: t.Default != nil,
		Shadowed:   make(map[int]int),
		Warnings:   make([]string, 0, 4),
	}

	values := make([]choose.Case[interface{}, struct{}], 0, len(t.Cases))
	for i, c := range t.Cases {
		if c == nil {
			a.Warnings = append(a.Warnings, fmt.Sprintf("case %d is missing", i))
			values = append(values, choose.Case[interface{}, struct{}]{})
			continue
		}
		a.Kinds[c.Kind()]++
		if c.Kind() == "" {
			a.Warnings = append(a.Warnings, fmt.Sprintf("case %d has an empty body", i))
		}
		if j := choose.Index(c.Value, values); 0 <= j && t.Cases[j] != nil {
			a.Shadowed[i] = j
			a.Warnings = append(a.Warnings, fmt.Sprintf("case %d (%#v) is shadowed by case %d", i, c.Value, j))
		}
		values = append(values, choose.When[interface{}, struct{}](c.Value, nil))
	}

	if t.Default != nil {
		a.Kinds[t.Default.Kind()]++
	}

	if len(t.Cases) == 0 && t.Default == nil {
		a.Warnings = append(a.Warnings, "table never renders anything")
	}

	return a
}
