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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrictEqual(t *testing.T) {
	type point struct{ X, Y int }
	type holder struct{ X interface{} }

	var (
		n     = 1
		m     = map[string]int{"a": 1}
		s     = []int{1, 2, 3}
		ch    = make(chan int)
		f     = func() {}
		nilFn func()
	)

	for _, tc := range []struct {
		name string
		x, y interface{}
		want bool
	}{
		{"nils", nil, nil, true},
		{"nil false", nil, false, false},
		{"nil zero", nil, 0, false},
		{"false zero", false, 0, false},
		{"int string", 0, "0", false},
		{"ints", 42, 42, true},
		{"int widths", 42, int64(42), false},
		{"int float", 1, 1.0, false},
		{"strings", "home", "home", true},
		{"different strings", "home", "Home", false},
		{"floats", 0.5, 0.5, true},
		{"NaN", math.NaN(), math.NaN(), false},
		{"signed zeros", 0.0, math.Copysign(0, -1), true},
		{"bools", true, true, true},
		{"structs", point{1, 2}, point{1, 2}, true},
		{"different structs", point{1, 2}, point{2, 1}, false},
		{"same pointer", &n, &n, true},
		{"different pointers", &n, new(int), false},
		{"typed nil pointer", (*int)(nil), nil, false},
		{"typed nil pointers", (*int)(nil), (*int)(nil), true},
		{"same map", m, m, true},
		{"equal maps", m, map[string]int{"a": 1}, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:2], false},
		{"equal slices", s, []int{1, 2, 3}, false},
		{"nil slices", []int(nil), []int(nil), true},
		{"same chan", ch, ch, true},
		{"different chans", ch, make(chan int), false},
		{"same func", f, f, false},
		{"nil funcs", nilFn, nilFn, true},
		{"uncomparable field", holder{s}, holder{s}, false},
		{"comparable field", holder{1}, holder{1}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StrictEqual(tc.x, tc.y))
			assert.Equal(t, tc.want, StrictEqual(tc.y, tc.x))
		})
	}
}
