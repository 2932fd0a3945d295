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

package tools

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/Comcast/choose/table"
	"github.com/Comcast/choose/util"

	md "github.com/russross/blackfriday/v2"
)

// RenderTableHTML writes an HTML fragment documenting the table.
//
// Shadowed cases get the class "shadowed".
func RenderTableHTML(t *table.Table, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	a := Analyze(t)

	f(`<div class="tableDoc doc">%s</div>`, md.Run([]byte(t.Doc)))

	body := func(b *table.Body) {
		switch b.Kind() {
		case "text":
			f(`<div class="code"><pre>%s</pre></div>`, html.EscapeString(b.Text))
		case "markdown":
			f(`<div class="markdown">%s</div>`, md.Run([]byte(b.Markdown)))
		case "js":
			f(`<div class="code"><pre>%s</pre></div>`, html.EscapeString(util.JS(b.JS)))
		}
	}

	f(`<div class="cases"><table>`)
	for i, c := range t.Cases {
		if c == nil {
			continue
		}
		class := "case"
		if _, shadowed := a.Shadowed[i]; shadowed {
			class += " shadowed"
		}
		f(`<tr class="%s"><td><div class="caseNum">%d</div></td>`, class, i)
		f(`<td><code class="caseValue">%s</code></td><td>`, html.EscapeString(util.JS(c.Value)))
		if c.Doc != "" {
			f(`<div class="caseDoc doc">%s</div>`, md.Run([]byte(c.Doc)))
		}
		f(`<div class="kind">%s</div>`, c.Kind())
		body(&c.Body)
		f(`</td></tr>`)
	}
	if t.Default != nil {
		f(`<tr class="default"><td></td><td>default</td><td>`)
		f(`<div class="kind">%s</div>`, t.Default.Kind())
		body(t.Default)
		f(`</td></tr>`)
	}
	f(`</table></div>`)

	if 0 < len(a.Warnings) {
		f(`<div class="warnings"><ul>`)
		for _, w := range a.Warnings {
			f(`<li>%s</li>`, html.EscapeString(w))
		}
		f(`</ul></div>`)
	}

	return nil
}

// RenderTablePage writes a complete HTML page documenting the
// table.
func RenderTablePage(t *table.Table, out io.Writer, cssFiles []string) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/table-html.css"}
	}

	name := html.EscapeString(t.Name)

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, name)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, name)

	if err := RenderTableHTML(t, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderTablePage reads a table, checks that it compiles, and
// renders its page.
func ReadAndRenderTablePage(filename string, cssFiles []string, out io.Writer) error {
	t, err := table.ReadFile(filename)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = t.Compile(ctx, nil); err != nil {
		return err
	}

	return RenderTablePage(t, out, cssFiles)
}
