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

package table

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"text/template"

	"github.com/Comcast/choose/interpreters/goja"
	"github.com/russross/blackfriday/v2"
)

// Body is what a case produces.  At most one of Text, Markdown, and
// JS should be given.  An empty Body produces nothing.
type Body struct {
	// Text is a text/template executed with the render data.
	Text string `json:"text,omitempty" yaml:",omitempty"`

	// Markdown is a text/template that is executed with the
	// render data and then rendered as HTML.
	Markdown string `json:"markdown,omitempty" yaml:",omitempty"`

	// JS is Goja source: either a string or a map with "code" and
	// "requires".  The code's return value is written: a string
	// as is, anything else as JSON, and nothing for undefined or
	// null.  The render data is available at _.data.
	JS interface{} `json:"js,omitempty" yaml:",omitempty"`

	render func(ctx context.Context, w io.Writer, data interface{}) error
}

// Kind returns "text", "markdown", "js", or "" for an empty Body.
func (b *Body) Kind() string {
	switch {
	case b.Text != "":
		return "text"
	case b.Markdown != "":
		return "markdown"
	case b.JS != nil:
		return "js"
	}
	return ""
}

func (b *Body) kinds() int {
	n := 0
	if b.Text != "" {
		n++
	}
	if b.Markdown != "" {
		n++
	}
	if b.JS != nil {
		n++
	}
	return n
}

// compile prepares the render function.  A non-empty result is the
// reason the Body is bad.
func (b *Body) compile(ctx context.Context, name string, i *goja.Interpreter) string {
	if 1 < b.kinds() {
		return "more than one of text, markdown, and js"
	}

	switch b.Kind() {
	case "text":
		t, err := template.New(name).Parse(b.Text)
		if err != nil {
			return err.Error()
		}
		b.render = func(ctx context.Context, w io.Writer, data interface{}) error {
			return t.Execute(w, data)
		}

	case "markdown":
		t, err := template.New(name).Parse(b.Markdown)
		if err != nil {
			return err.Error()
		}
		b.render = func(ctx context.Context, w io.Writer, data interface{}) error {
			var buf bytes.Buffer
			if err := t.Execute(&buf, data); err != nil {
				return err
			}
			_, err := w.Write(blackfriday.Run(buf.Bytes()))
			return err
		}

	case "js":
		p, err := i.Compile(ctx, b.JS)
		if err != nil {
			return err.Error()
		}
		b.render = func(ctx context.Context, w io.Writer, data interface{}) error {
			x, err := i.Exec(ctx, data, p)
			if err != nil {
				return err
			}
			switch vv := x.(type) {
			case nil:
				return nil
			case string:
				_, err = io.WriteString(w, vv)
				return err
			default:
				js, err := json.Marshal(&x)
				if err != nil {
					return err
				}
				_, err = w.Write(js)
				return err
			}
		}

	default:
		b.render = func(ctx context.Context, w io.Writer, data interface{}) error {
			return nil
		}
	}

	return ""
}
