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

// Case binds a value to the producer that should run when a subject
// strictly equals that value.
type Case[T, V any] struct {
	// Value is compared to the subject.
	Value T

	// Then is invoked only if this case is selected.
	Then func() V
}

// When makes a Case.
func When[T, V any](value T, then func() V) Case[T, V] {
	return Case[T, V]{
		Value: value,
		Then:  then,
	}
}

// Choose invokes the producer of the first case whose value strictly
// equals the given value and returns its result.
//
// If no case matches, Choose returns the result of otherwise, if
// otherwise isn't nil.  In both cases the second return value is
// true.  If nothing matches and there is no otherwise, Choose invokes
// nothing and returns the zero V and false.
//
// A panic from a producer is not recovered.
func Choose[T, V any](value T, cases []Case[T, V], otherwise func() V) (V, bool) {
	return ChooseFunc(value, cases, equal[T], otherwise)
}

// ChooseFunc is Choose with the given equality predicate instead of
// StrictEqual.  The predicate is called with the subject first and a
// case value second.
func ChooseFunc[T, V any](value T, cases []Case[T, V], eq func(T, T) bool, otherwise func() V) (V, bool) {
	if i := indexFunc(value, cases, eq); 0 <= i {
		return cases[i].Then(), true
	}
	if otherwise != nil {
		return otherwise(), true
	}
	var zero V
	return zero, false
}

// Index returns the position of the first case that Choose would
// select for the given value, or -1 if no case matches.
//
// No producer is invoked.
func Index[T, V any](value T, cases []Case[T, V]) int {
	return indexFunc(value, cases, equal[T])
}

func indexFunc[T, V any](value T, cases []Case[T, V], eq func(T, T) bool) int {
	for i, c := range cases {
		if eq(value, c.Value) {
			return i
		}
	}
	return -1
}

func equal[T any](x, y T) bool {
	return StrictEqual(x, y)
}
