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

package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDwimjs(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"name": "John Doe", "age": float64(30)},
		Dwimjs(`{"name":"John Doe","age":30}`))
	assert.Equal(t, map[string]interface{}{"name": "Jane Doe"},
		Dwimjs([]byte(`{"name":"Jane Doe"}`)))
	assert.Equal(t, 12345, Dwimjs(12345))
	assert.Panics(t, func() { Dwimjs("hello world") })
}
