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

package choose

import (
	"reflect"
)

// StrictEqual reports whether x and y are the same value without any
// conversion.
//
// Values with different dynamic types are never equal, so 0 isn't
// "0", int(1) isn't int64(1), and nil isn't false.  Values of
// comparable types are compared with ==, which means NaN isn't equal
// to itself and pointers are equal only if they point to the same
// variable.
//
// Maps and slices aren't comparable in Go, so they are compared by
// identity: a map equals only itself, and a slice equals only a slice
// with the same backing array, length, and capacity.  Funcs are equal
// only if both are nil.
//
// A comparable type can still hold an uncomparable value (an
// interface field holding a slice, say).  Such values are reported
// unequal.
func StrictEqual(x, y interface{}) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}

	vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
	if vx.Type() != vy.Type() {
		return false
	}

	switch vx.Kind() {
	case reflect.Map:
		return vx.UnsafePointer() == vy.UnsafePointer()
	case reflect.Slice:
		return vx.UnsafePointer() == vy.UnsafePointer() &&
			vx.Len() == vy.Len() &&
			vx.Cap() == vy.Cap()
	case reflect.Func:
		return vx.IsNil() && vy.IsNil()
	}

	return comparableEqual(x, y)
}

// comparableEqual uses == but reports false instead of panicking
// when the dynamic values turn out to be uncomparable.
func comparableEqual(x, y interface{}) (eq bool) {
	defer func() {
		if r := recover(); r != nil {
			eq = false
		}
	}()
	return x == y
}
