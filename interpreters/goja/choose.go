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

package goja

import (
	"github.com/dop251/goja"
)

// Install defines the global function choose(value, cases,
// defaultCase) in the given runtime.
//
// Cases are structured as [caseValue, func].  value is matched to
// caseValue with ===, and the first match is selected.  Its func is
// called with no arguments and its result is returned.  If nothing
// matches, the result of defaultCase() is returned, or undefined if
// defaultCase is undefined or null.
//
// Anything thrown by the selected function is rethrown unchanged.
func Install(o *goja.Runtime) error {
	return o.Set("choose", func(call goja.FunctionCall) goja.Value {
		return Choose(o, call.Argument(0), call.Argument(1), call.Argument(2))
	})
}

// Choose implements choose() for the given runtime.
//
// cases can be any iterable (an Array, a Map, a generator).  Entries
// are pulled one at a time, and the scan stops at the first match, so
// nothing after the match is read.  An entry's func is only read
// when that entry matches.  A malformed entry is a TypeError only if
// the scan reaches it.
func Choose(o *goja.Runtime, value, cases, defaultCase goja.Value) goja.Value {
	if isNothing(cases) {
		panic(o.NewTypeError("choose: cases is not iterable"))
	}

	var selected *goja.Object
	o.ForOf(cases, func(entry goja.Value) bool {
		if isNothing(entry) {
			panic(o.NewTypeError("choose: malformed case"))
		}
		e := entry.ToObject(o)
		if value.StrictEquals(orUndefined(e.Get("0"))) {
			selected = e
			return false
		}
		return true
	})

	if selected != nil {
		return invoke(o, selected.Get("1"))
	}
	if isNothing(defaultCase) {
		return goja.Undefined()
	}
	return invoke(o, defaultCase)
}

// invoke calls f with no arguments.  A thrown exception is rethrown
// as is.
func invoke(o *goja.Runtime, f goja.Value) goja.Value {
	fn, is := goja.AssertFunction(orUndefined(f))
	if !is {
		panic(o.NewTypeError("choose: case is not a function"))
	}
	v, err := fn(goja.Undefined())
	if err != nil {
		if ex, is := err.(*goja.Exception); is {
			panic(ex)
		}
		panic(o.NewGoError(err))
	}
	return v
}

func isNothing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

func orUndefined(v goja.Value) goja.Value {
	if v == nil {
		return goja.Undefined()
	}
	return v
}
