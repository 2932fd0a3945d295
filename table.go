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

// Table is a reusable list of cases with an optional default.
//
// Building a Table modifies it, but choosing from one doesn't, so a
// built Table can be shared by goroutines as long as its producers
// can.
type Table[T, V any] struct {
	Cases     []Case[T, V]
	Otherwise func() V
}

// NewTable makes an empty Table.
func NewTable[T, V any]() *Table[T, V] {
	return &Table[T, V]{
		Cases: make([]Case[T, V], 0, 8),
	}
}

// Add appends a case.  A case with a value that's already present is
// kept but will never be selected.
//
// The Table is modified and returned.
func (t *Table[T, V]) Add(value T, then func() V) *Table[T, V] {
	t.Cases = append(t.Cases, When(value, then))
	return t
}

// Else sets the default producer.
//
// The Table is modified and returned.
func (t *Table[T, V]) Else(otherwise func() V) *Table[T, V] {
	t.Otherwise = otherwise
	return t
}

// Choose calls Choose with the Table's cases and default.
func (t *Table[T, V]) Choose(value T) (V, bool) {
	return Choose(value, t.Cases, t.Otherwise)
}

// Len returns the number of cases.
func (t *Table[T, V]) Len() int {
	return len(t.Cases)
}
