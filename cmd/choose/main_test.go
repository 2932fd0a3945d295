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

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Comcast/choose/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const pagesSrc = `
name: pages
cases:
  - value: home
    markdown: "# Home"
  - value: about
    text: "About {{.user}}"
  - value: 5
    js: "return 'five for ' + _.data.user;"
  - value: "5"
    text: "the string five"
  - value: about
    text: shadowed
default:
  text: "Error for {{.user}}"
`

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(src), 0644))
	return filename
}

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func TestRender(t *testing.T) {
	pages := writeFile(t, "pages.yaml", pagesSrc)

	out, err := runArgs(t, "render", "-t", pages,
		"-s", "about", "-s", `"5"`, "-s", "5", "-s", "home", "-s", "contact",
		"-d", `{"user":"homer"}`)
	require.NoError(t, err)
	assert.Equal(t, "About homer\nthe string five\nfive for homer\n<h1>Home</h1>\nError for homer\n", out)
}

func TestRenderAbsent(t *testing.T) {
	pages := writeFile(t, "pages.yaml", `
name: nodefault
cases:
  - value: home
    text: Home
`)
	out, err := runArgs(t, "render", "-t", pages, "-s", "contact")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	_, err = runArgs(t, "render", "-s", "contact")
	assert.Error(t, err)

	_, err = runArgs(t, "render", "-t", pages, "-n", "pages")
	assert.Error(t, err)
}

func TestRenderBodyError(t *testing.T) {
	pages := writeFile(t, "pages.yaml", `
name: throws
cases:
  - value: bad
    js: "throw 'nope';"
`)
	_, err := runArgs(t, "render", "-t", pages, "-s", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRenderWriteError(t *testing.T) {
	pages := writeFile(t, "pages.yaml", pagesSrc)

	err := run([]string{"render", "-t", pages, "-s", "about", "-d", `{"user":"homer"}`}, brokenWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var out bytes.Buffer
	require.NoError(t, writeOutputs(&out, []string{"a", "", "b\n"}))
	assert.Equal(t, "a\nb\n", out.String())
}

func TestJS(t *testing.T) {
	out, err := runArgs(t, "js", "-e", `return choose(_.data.n, [[1, () => "one"], [2, () => "two"]]);`, "-d", "n: 2")
	require.NoError(t, err)
	assert.Equal(t, "\"two\"\n", out)

	out, err = runArgs(t, "js", "-e", `return choose(3, [[1, () => "one"]]);`)
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.js"), []byte(`function likes() { return "tacos"; }`), 0644))
	out, err = runArgs(t, "js", "-l", dir, "-r", "file://lib.js", "-e", `return {likes: likes()};`)
	require.NoError(t, err)
	assert.Equal(t, "{\"likes\":\"tacos\"}\n", out)

	_, err = runArgs(t, "js")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	pages := writeFile(t, "pages.yaml", pagesSrc)

	out, err := runArgs(t, "check", "-t", pages)
	require.NoError(t, err)
	assert.Equal(t, "pages: 5 cases, default true\nwarning: case 4 (\"about\") is shadowed by case 1\n", out)

	bad := writeFile(t, "bad.yaml", `
name: bad
cases:
  - value: [1]
    text: never
`)
	_, err = runArgs(t, "check", "-t", bad)
	assert.Error(t, err)
}

func TestHTML(t *testing.T) {
	pages := writeFile(t, "pages.yaml", pagesSrc)

	out, err := runArgs(t, "html", "-t", pages, "--css", "table.css")
	require.NoError(t, err)
	assert.Contains(t, out, "<title>pages</title>")
	assert.Contains(t, out, `<link href="table.css" rel="stylesheet">`)
}

func TestStorage(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tables.db")
	pages := writeFile(t, "pages.yaml", pagesSrc)

	_, err := runArgs(t, "ls")
	assert.True(t, errors.Is(err, NoStorage))

	_, err = runArgs(t, "--db", db, "put", "pages", pages)
	require.NoError(t, err)

	out, err := runArgs(t, "--db", db, "ls")
	require.NoError(t, err)
	assert.Equal(t, "pages\n", out)

	out, err = runArgs(t, "--db", db, "get", "pages")
	require.NoError(t, err)
	assert.Equal(t, pagesSrc, out)

	out, err = runArgs(t, "--db", db, "render", "-n", "pages", "-s", "about", "-d", "user: marge")
	require.NoError(t, err)
	assert.Equal(t, "About marge\n", out)

	_, err = runArgs(t, "--db", db, "rm", "pages")
	require.NoError(t, err)

	_, err = runArgs(t, "--db", db, "get", "pages")
	assert.True(t, errors.Is(err, storage.NotFound))

	// Bad tables aren't stored.
	bad := writeFile(t, "bad.yaml", "cases:\n  - value: x\n    text: a\n    markdown: b\n")
	_, err = runArgs(t, "--db", db, "put", "bad", bad)
	assert.Error(t, err)

	out, err = runArgs(t, "--db", db, "ls")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestConfig(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tables.db")
	config := writeFile(t, "config.yaml", `
logging:
  encoding: json
  level: error
storage:
  bolt: `+db+`
`)

	c, err := LoadConfig(config)
	require.NoError(t, err)
	assert.Equal(t, "json", c.Logging.Encoding)
	assert.Equal(t, zapcore.ErrorLevel, c.Logging.Level)
	assert.Equal(t, db, c.Storage.Bolt)

	out, err := runArgs(t, "-c", config, "ls")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	c, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
