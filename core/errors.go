/* Copyright 2021 Comcast Cable Communications Management, LLC
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

package core

// These errors are user errors, not internal errors.  They all abort
// extraction; the generator makes no attempt at partial recovery from
// a malformed behavior description.

// BadXML occurs when the behavior description isn't parseable XML.
type BadXML struct {
	Err error
}

func (e *BadXML) Error() string {
	return "unparseable behavior description: " + e.Err.Error()
}

func (e *BadXML) Unwrap() error {
	return e.Err
}

// MissingAttr occurs when a recognized element lacks a required
// attribute.
type MissingAttr struct {
	Element string
	Attr    string
}

func (e *MissingAttr) Error() string {
	return `element <` + e.Element + `> is missing required attribute "` + e.Attr + `"`
}

// BadExpression occurs when a datamodel expr, a transition cond, or
// an assign expr doesn't compile as ECMAScript.
type BadExpression struct {
	Where string
	Src   string
	Err   error
}

func (e *BadExpression) Error() string {
	return "bad expression at " + e.Where + ": " + e.Err.Error() + ": " + e.Src
}

func (e *BadExpression) Unwrap() error {
	return e.Err
}

// BadAssign occurs when an assign expr has no "." and therefore names
// no response field.
type BadAssign struct {
	NodeName string
	Expr     string
}

func (e *BadAssign) Error() string {
	return `assign expr "` + e.Expr + `" in state "` + e.NodeName + `" names no response field`
}

// NotResolved occurs when generation is attempted on a model that
// hasn't been through Resolve.
type NotResolved struct {
	SkillName string
}

func (e *NotResolved) Error() string {
	return `model for skill "` + e.SkillName + `" has not been resolved`
}
