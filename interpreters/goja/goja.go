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

// Package goja runs JavaScript that can call choose().
//
// See https://github.com/dop251/goja.
package goja

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/gorhill/cronexpr"
	"go.uber.org/zap"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Exec if the execution is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)
)

// Interpreter compiles and executes JavaScript using Goja, which is
// a Go implementation of ECMAScript 5.1+.
type Interpreter struct {

	// Testing is used to expose or hide some runtime
	// capabilities.
	Testing bool

	// LibraryProvider resolves the names given in a source's
	// "requires".  If nil, DefaultLibraryProvider is used.
	LibraryProvider func(ctx context.Context, i *Interpreter, libraryName string) (string, error)

	// Logger receives the output of _.log().  Nil means no
	// logging.
	Logger *zap.Logger
}

// NewInterpreter makes a new Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Logger: zap.NewNop(),
	}
}

func (i *Interpreter) logger() *zap.Logger {
	if i.Logger == nil {
		return zap.NewNop()
	}
	return i.Logger
}

// ProvideLibrary resolves the library name into library source.
func (i *Interpreter) ProvideLibrary(ctx context.Context, name string) (string, error) {
	if i.LibraryProvider != nil {
		return i.LibraryProvider(ctx, i, name)
	}
	return DefaultLibraryProvider(ctx, i, name)
}

var DefaultLibraryProvider = MakeFileLibraryProvider(".")

// MakeFileLibraryProvider makes a library provider that supports
// names that are URLs with protocols of "file", "http", and "https".
// File names are relative to the given directory.
//
// There currently is no additional control when using HTTP/HTTPS.
func MakeFileLibraryProvider(dir string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		parts := strings.SplitN(name, "://", 2)
		if 2 != len(parts) {
			return "", fmt.Errorf("bad link '%s'", name)
		}
		switch parts[0] {
		case "file":
			bs, err := os.ReadFile(filepath.Join(dir, parts[1]))
			if err != nil {
				return "", err
			}
			return string(bs), nil
		case "http", "https":
			req, err := http.NewRequestWithContext(ctx, "GET", name, nil)
			if err != nil {
				return "", err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return "", fmt.Errorf("library fetch status %s %d",
					resp.Status, resp.StatusCode)
			}
			bs, err := io.ReadAll(resp.Body)
			if err != nil {
				return "", err
			}
			return string(bs), nil
		default:
			return "", fmt.Errorf("unknown protocol '%s'", parts[0])
		}
	}
}

// MakeMapLibraryProvider makes a library provider backed by the given
// map from names to sources.
func MakeMapLibraryProvider(srcs map[string]string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		src, have := srcs[name]
		if !have {
			return "", fmt.Errorf("undefined library '%s'", name)
		}
		return src, nil
	}
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// parseSource looks into the given map to try to find "requires" and
// "code" properties.
func parseSource(vv map[string]interface{}) (code string, libs []string, err error) {
	x, have := vv["code"]
	if !have {
		err = errors.New("no code")
		return
	}
	if s, is := x.(string); is {
		code = s
	} else {
		err = fmt.Errorf("bad code (%T)", x)
		return
	}

	x = vv["requires"]
	switch vv := x.(type) {
	case nil:
	case string:
		libs = []string{vv}
	case []string:
		libs = vv
	case []interface{}:
		libs = make([]string, 0, len(vv))
		for _, x := range vv {
			s, is := x.(string)
			if !is {
				err = fmt.Errorf("bad library (%T)", x)
				return
			}
			libs = append(libs, s)
		}
	default:
		err = fmt.Errorf("bad requires (%T)", x)
	}

	return
}

// AsSource extracts code and required library names from a string or
// a map with "code" and (optionally) "requires".
//
// Maps from YAML parsers that return map[interface{}]interface{} are
// also accepted.
func AsSource(src interface{}) (code string, libs []string, err error) {
	switch vv := src.(type) {
	case string:
		code = vv
		return
	case map[interface{}]interface{}:
		m := make(map[string]interface{})
		for k, v := range vv {
			str, ok := k.(string)
			if !ok {
				err = fmt.Errorf("bad src key (%T)", k)
				return
			}
			m[str] = v
		}
		return parseSource(m)
	case map[string]interface{}:
		return parseSource(vv)
	default:
		err = fmt.Errorf("bad Goja source (%T)", src)
		return
	}
}

// Compile resolves any required libraries and calls goja.Compile.
//
// The code is the body of a function, so it should return its
// result.
//
// This method can block if the interpreter's LibraryProvider blocks
// in order to obtain external libraries.
func (i *Interpreter) Compile(ctx context.Context, src interface{}) (*goja.Program, error) {
	code, libs, err := AsSource(src)
	if err != nil {
		return nil, err
	}

	code = wrapSrc(code)

	var libsSrc string
	for _, lib := range libs {
		libSrc, err := i.ProvideLibrary(ctx, lib)
		if err != nil {
			return nil, err
		}
		libsSrc += libSrc + "\n"
	}

	code = libsSrc + code

	p, err := goja.Compile("", code, true)
	if err != nil {
		return nil, errors.New(err.Error() + ": " + code)
	}

	return p, nil
}

func protest(o *goja.Runtime, x interface{}) {
	panic(o.ToValue(x))
}

// Exec runs the compiled program and returns its exported result.
// An undefined result is returned as nil.
//
// The global function choose(value, cases, defaultCase) is available.
// See Choose.
//
// The following properties are available from the runtime at _.
//
//	data: the given data.
//	log(x): Log x (as JSON) at info level.
//	esc(s): URL query-escape the given string.
//	cronNext(s): the next time (RFC3339Nano, UTC) for the given
//	  crontab expression, so a table can choose on a schedule.
//
// For testing only:
//
//	sleep(ms): sleep for the given number of milliseconds.
//
// The Testing flag must be set to see sleep().
//
// If ctx is done before the program finishes, the execution is
// interrupted and Interrupted is returned.
func (i *Interpreter) Exec(ctx context.Context, data interface{}, p *goja.Program) (interface{}, error) {
	if p == nil {
		return nil, errors.New("nil program")
	}

	o := goja.New()

	if err := Install(o); err != nil {
		return nil, err
	}

	env := map[string]interface{}{
		"data": data,
	}

	if i.Testing {
		env["sleep"] = func(ms int) {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}
	}

	env["esc"] = func(x interface{}) interface{} {
		s, is := x.(string)
		if !is {
			protest(o, "not a string")
		}
		return url.QueryEscape(s)
	}

	env["cronNext"] = func(x interface{}) interface{} {
		s, is := x.(string)
		if !is {
			protest(o, "not a string")
		}
		c, err := cronexpr.Parse(s)
		if err != nil {
			protest(o, err.Error())
		}
		return c.Next(time.Now()).UTC().Format(time.RFC3339Nano)
	}

	log := i.logger()
	env["log"] = func(x interface{}) interface{} {
		js, err := json.Marshal(&x)
		if err != nil {
			log.Warn("goja.log can't marshal", zap.Error(err))
		} else {
			log.Info("goja.log", zap.String("x", string(js)))
		}
		return x
	}

	if err := o.Set("_", env); err != nil {
		return nil, err
	}

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		// If this Exec method calls cancel() after RunProgram
		// returns, then we'll never see this
		// InterruptedMessage, which is actually the behavior
		// we want.  In this case, we weren't actually interrupted.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunProgram(p)
	cancel()

	if err != nil {
		var ie *goja.InterruptedError
		if errors.As(err, &ie) {
			return nil, Interrupted
		}
		return nil, err
	}

	if v == nil || goja.IsUndefined(v) {
		return nil, nil
	}

	return v.Export(), nil
}

// Eval compiles and executes the given source.
func (i *Interpreter) Eval(ctx context.Context, src interface{}, data interface{}) (interface{}, error) {
	p, err := i.Compile(ctx, src)
	if err != nil {
		return nil, err
	}
	return i.Exec(ctx, data, p)
}
