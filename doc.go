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

// Package choose selects and evaluates one of several producers based
// on the value of a subject.
//
// Cases are (value, producer) pairs.  The subject is compared to each
// case value by strict equality (see StrictEqual), and the producer
// of the first matching case is invoked.  If no case matches, an
// optional default producer is invoked instead.  Only the selected
// producer ever runs.
//
// This is similar to a switch statement, but as an expression and
// without fallthrough:
//
//	header, _ := choose.Choose(section, []choose.Case[string, string]{
//		choose.When("home", func() string { return "<h1>Home</h1>" }),
//		choose.When("about", func() string { return "<h1>About</h1>" }),
//	}, func() string { return "<h1>Error</h1>" })
//
// Package 'table' builds on this package to select among templates
// declared in YAML, and package 'interpreters/goja' offers the same
// operation to JavaScript.
//
// See https://github.com/Comcast/choose for more.
package choose
