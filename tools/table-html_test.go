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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTableHTML(t *testing.T) {
	out := bytes.NewBuffer(make([]byte, 0, 1024*16))

	err := ReadAndRenderTablePage("../table/testdata/pages.yaml", []string{"table.css"}, out)
	require.NoError(t, err)

	page := out.String()
	assert.Contains(t, page, "<title>pages</title>")
	assert.Contains(t, page, `<link href="table.css" rel="stylesheet">`)
	assert.Contains(t, page, "<strong>header</strong>")
	assert.Contains(t, page, `<tr class="case shadowed"><td><div class="caseNum">7</div>`)
	assert.Contains(t, page, `<code class="caseValue">&#34;5&#34;</code>`)
	assert.Contains(t, page, `<tr class="default">`)
	assert.Equal(t, 1, strings.Count(page, "shadowed by case 1"))

	err = ReadAndRenderTablePage("../table/testdata/nope.yaml", nil, out)
	assert.Error(t, err)
}
