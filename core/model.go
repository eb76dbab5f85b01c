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

import (
	"log"
	"strings"
)

// FieldType is the closed set of types a datamodel variable or an
// interface field can have.
//
// We keep this set closed so that the single place where a type
// changes the shape of generated code (the field-access emitter) can
// switch over it exhaustively instead of comparing strings all over.
type FieldType int

const (
	// TypeString is also the last-resort fallback when a field's
	// type can't be resolved.  See Resolve.
	TypeString FieldType = iota
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
)

var fieldTypeNames = map[FieldType]string{
	TypeString:  "string",
	TypeBool:    "bool",
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeUint8:   "uint8",
	TypeUint16:  "uint16",
	TypeUint32:  "uint32",
	TypeUint64:  "uint64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
}

func (t FieldType) String() string {
	if s, have := fieldTypeNames[t]; have {
		return s
	}
	return "string"
}

// ParseFieldType maps a declared type name to a FieldType.
//
// The spellings are the ROS interface spellings plus a couple of
// aliases ("double", "float") that show up in datamodels written by
// people who think in C++.
func ParseFieldType(s string) (FieldType, bool) {
	switch strings.TrimSpace(s) {
	case "string":
		return TypeString, true
	case "bool", "boolean":
		return TypeBool, true
	case "int8":
		return TypeInt8, true
	case "int16":
		return TypeInt16, true
	case "int32", "int":
		return TypeInt32, true
	case "int64":
		return TypeInt64, true
	case "uint8", "byte", "char":
		return TypeUint8, true
	case "uint16":
		return TypeUint16, true
	case "uint32":
		return TypeUint32, true
	case "uint64":
		return TypeUint64, true
	case "float32", "float":
		return TypeFloat32, true
	case "float64", "double":
		return TypeFloat64, true
	}
	return TypeString, false
}

// DatamodelVariable is one <data> declaration: named, typed state
// declared once per behavior description and immutable after load.
type DatamodelVariable struct {
	ID   string
	Type FieldType
	Expr string
}

// AssignMapping is one <assign> operation inside a response-handling
// block.  Expr has the shape "<prefix>.<fieldName>"; only the suffix
// after the first "." is semantically significant (the prefix just
// denotes "the incoming response" and carries no type information).
type AssignMapping struct {
	Location string
	Expr     string
}

// Field returns the response field name of the mapping: the part of
// Expr after the first ".".  Returns "" if Expr has no ".".
func (a AssignMapping) Field() string {
	if i := strings.Index(a.Expr, "."); 0 <= i {
		return a.Expr[i+1:]
	}
	return ""
}

// ResolvedField is a response field annotated with its datamodel
// destination and resolved type.  Built by Resolve; order follows the
// extractor's encounter order.
type ResolvedField struct {
	Name      string
	Datamodel string
	Type      FieldType
}

// EventDescriptor describes one service (or topic) interaction of the
// behavior.  One EventDescriptor drives one instantiation of the
// repeated template block.
//
// ServiceTypeName is the interface's message-type identifier (the
// part of the compound interface name after the last "/").  It is
// NOT the same thing as FunctionName; we've shipped that bug before.
type EventDescriptor struct {
	// NodeName is the id of the state that declares the
	// response-handling block.
	NodeName string

	// ClientName is the member name of the generated client.
	ClientName string

	// InterfaceName is the compound interface identifier,
	// e.g. "blackboard_interfaces/GetIntBlackboard".
	InterfaceName string

	// FunctionName is the RPC/topic operation id, e.g. "GetInt".
	FunctionName string

	// ServiceTypeName is the message-type identifier,
	// e.g. "GetIntBlackboard".
	ServiceTypeName string

	// ServiceTypeSnake is ServiceTypeName transliterated to
	// snake_case.  Generated include paths and variable tokens
	// use this casing; client type tokens use ServiceTypeName.
	ServiceTypeSnake string

	// ServerName is the service name the client connects to.
	ServerName string

	// TopicName is set instead of ServerName for topic events.
	TopicName string

	// ResponseFieldToDatamodel maps a response field name to the
	// datamodel variable it's assigned to.  Last write wins.
	ResponseFieldToDatamodel map[string]string

	// InterfaceFields lists response field names in encounter
	// order, duplicates included.
	InterfaceFields []string

	// ResolvedFields is filled in by Resolve, preserving
	// InterfaceFields order.
	ResolvedFields []ResolvedField
}

// Target returns the service or topic name, whichever is set.
func (e *EventDescriptor) Target() string {
	if e.ServerName != "" {
		return e.ServerName
	}
	return e.TopicName
}

// Transition is a single <transition> of a state.  A transition that
// came from a response-handling block carries that block's assigns.
type Transition struct {
	Event   string
	Target  string
	Cond    string
	Assigns []AssignMapping
}

// State is one <state> of the behavior, flattened: nested states are
// recorded as their own State records.
type State struct {
	ID          string
	Doc         string
	Transitions []Transition
}

// EventModel is the extracted (and, after Resolve, typed) model of
// one behavior description.  Built fresh per invocation, never
// persisted, and consumed exactly once by the template engine.
type EventModel struct {
	SkillName string
	RootState string

	Datamodel []DatamodelVariable
	States    []State
	Events    []*EventDescriptor

	// Warnf reports non-fatal diagnostics (unresolvable types,
	// duplicate mappings).  Defaults to log.Printf.
	Warnf func(format string, args ...interface{}) `json:"-"`

	resolved bool
}

// Resolved reports whether Resolve has run on this model.
func (m *EventModel) Resolved() bool {
	return m.resolved
}

func (m *EventModel) warnf(format string, args ...interface{}) {
	if m.Warnf != nil {
		m.Warnf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// DatamodelVar returns the declaration for id, if any.
func (m *EventModel) DatamodelVar(id string) (DatamodelVariable, bool) {
	for _, v := range m.Datamodel {
		if v.ID == id {
			return v, true
		}
	}
	return DatamodelVariable{}, false
}

// SnakeCase transliterates a type name like "GetIntBlackboard" to
// "get_int_blackboard": an underscore before each uppercase letter
// (except at position 0), then everything lowercased.
//
// Names are otherwise opaque; we do no further normalization.
func SnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if 'A' <= r && r <= 'Z' {
			if 0 < i {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
