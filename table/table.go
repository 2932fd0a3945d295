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

// Package table renders one of several templates depending on the
// value of a subject.
//
// A Table is usually written in YAML:
//
//	name: section
//	doc: Picks the page header.
//	cases:
//	  - value: home
//	    markdown: "# Home"
//	  - value: about
//	    text: "About {{.user}}"
//	  - value: 5
//	    js: "return 'five for ' + _.data.user;"
//	default:
//	  text: Error
//
// Case values are matched with choose.StrictEqual, so YAML types
// matter: 5 and "5" are different values.  Use ParseValue to obtain
// a subject with the same typing.
//
// Parse or read a Table, Compile() it, and then Render() it as often
// as you like.  Only the selected body is executed.
package table

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Comcast/choose"
	"github.com/Comcast/choose/interpreters/goja"

	"github.com/jsccast/yaml"
	"go.uber.org/zap"
)

// Case is a value and the body to render when the subject strictly
// equals that value.
type Case struct {
	Value interface{} `json:"value" yaml:"value"`

	// Doc is optional documentation.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	Body `yaml:",inline"`
}

// Table is an ordered list of Cases and an optional default Body.
//
// The first Case whose Value strictly equals the subject wins.  Later
// Cases with the same Value are never rendered.
type Table struct {
	// Name is the generic name for this table.
	Name string `json:"name,omitempty" yaml:",omitempty"`

	// Doc is general documentation about this table.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	Cases []*Case `json:"cases,omitempty" yaml:",omitempty"`

	// Default, if given, is rendered when no Case matches.
	Default *Body `json:"default,omitempty" yaml:",omitempty"`

	// Logger, if not nil, gets a debug entry for each Render.
	Logger *zap.Logger `json:"-" yaml:"-"`

	compiled bool
}

// Parse parses YAML (or JSON) into a Table.
//
// The Table still needs to be Compile()ed.
func Parse(src []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(src, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ReadFile reads and parses a Table.
func ReadFile(filename string) (*Table, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	t, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

// ParseValue parses a subject the same way case values are parsed.
// The empty string is nil.
func ParseValue(s string) (interface{}, error) {
	var x interface{}
	if err := yaml.Unmarshal([]byte(s), &x); err != nil {
		return nil, err
	}
	return x, nil
}

func (t *Table) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}

// Compile checks every case value and compiles every body.
//
// The Interpreter is used for JavaScript bodies.  If it's nil and
// there are JavaScript bodies, a new Interpreter is used.
func (t *Table) Compile(ctx context.Context, i *goja.Interpreter) error {
	if i == nil {
		i = goja.NewInterpreter()
		i.Logger = t.Logger
	}

	for n, c := range t.Cases {
		if c == nil {
			return &BadBody{Table: t, Case: n, Reason: "missing case"}
		}
		if !matchable(c.Value) {
			return &UnmatchableCase{Table: t, Case: n, Value: c.Value}
		}
		if reason := c.compile(ctx, fmt.Sprintf("%s/%d", t.Name, n), i); reason != "" {
			return &BadBody{Table: t, Case: n, Reason: reason}
		}
	}

	if t.Default != nil {
		if reason := t.Default.compile(ctx, t.Name+"/default", i); reason != "" {
			return &BadBody{Table: t, Case: -1, Reason: reason}
		}
	}

	t.compiled = true

	return nil
}

// matchable reports whether some parsed subject could strictly equal
// the given parsed case value.
func matchable(x interface{}) bool {
	switch vv := x.(type) {
	case nil, bool, string, int, int64, uint64:
		return true
	case float64:
		return !math.IsNaN(vv)
	default:
		return false
	}
}

// Render writes the body of the first Case whose value strictly
// equals the subject.  If no Case matches, the Default is rendered.
// The data is given to the body.
//
// Render returns false if nothing matched and there is no Default.
// An error from the selected body is returned as is.
func (t *Table) Render(ctx context.Context, w io.Writer, subject, data interface{}) (bool, error) {
	if !t.compiled {
		return false, &NotCompiled{Table: t}
	}

	chosen := -2

	cases := make([]choose.Case[interface{}, error], len(t.Cases))
	for n, c := range t.Cases {
		n, c := n, c
		cases[n] = choose.When(c.Value, func() error {
			chosen = n
			return c.render(ctx, w, data)
		})
	}

	var otherwise func() error
	if t.Default != nil {
		otherwise = func() error {
			chosen = -1
			return t.Default.render(ctx, w, data)
		}
	}

	err, ok := choose.Choose(subject, cases, otherwise)

	t.logger().Debug("rendered",
		zap.String("table", t.Name),
		zap.Any("subject", subject),
		zap.Bool("matched", ok),
		zap.Int("case", chosen),
		zap.Error(err))

	return ok, err
}

// RenderString is Render into a string.
func (t *Table) RenderString(ctx context.Context, subject, data interface{}) (string, bool, error) {
	var buf bytes.Buffer
	ok, err := t.Render(ctx, &buf, subject, data)
	return buf.String(), ok, err
}

// Chosen returns the index of the Case that Render would select for
// the subject, -1 for the Default, or -2 if nothing would be
// rendered.  No body is executed.
func (t *Table) Chosen(subject interface{}) int {
	cases := make([]choose.Case[interface{}, struct{}], len(t.Cases))
	for n, c := range t.Cases {
		if c != nil {
			cases[n].Value = c.Value
		}
	}
	if n := choose.Index(subject, cases); 0 <= n {
		return n
	}
	if t.Default != nil {
		return -1
	}
	return -2
}
