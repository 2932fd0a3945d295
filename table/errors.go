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

package table

// These errors are user errors, not internal errors.

import (
	"fmt"
)

// NotCompiled occurs when a Table is rendered before it has been
// Compile()ed.
type NotCompiled struct {
	Table *Table
}

func (e *NotCompiled) Error() string {
	return `table "` + e.Table.Name + `" not compiled`
}

// BadBody occurs when a case body can't be compiled.
//
// Case is the index of the case, or -1 for the default.
type BadBody struct {
	Table  *Table
	Case   int
	Reason string
}

func (e *BadBody) Error() string {
	return fmt.Sprintf(`bad body at %s in table "%s": %s`, at(e.Case), e.Table.Name, e.Reason)
}

// UnmatchableCase occurs when a case value is something that no
// subject can ever strictly equal, like a list, a map, or NaN.
type UnmatchableCase struct {
	Table *Table
	Case  int
	Value interface{}
}

func (e *UnmatchableCase) Error() string {
	return fmt.Sprintf(`unmatchable value %#v at %s in table "%s"`, e.Value, at(e.Case), e.Table.Name)
}

func at(i int) string {
	if i < 0 {
		return "default"
	}
	return fmt.Sprintf("case %d", i)
}
