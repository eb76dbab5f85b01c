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
	"testing"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"GetIntBlackboard": "get_int_blackboard",
		"GetInt":           "get_int",
		"X":                "x",
		"already_snake":    "already_snake",
		"":                 "",
		"HTTPGet":          "h_t_t_p_get", // names are opaque; no acronym smarts
	}
	for in, want := range cases {
		if got := SnakeCase(in); got != want {
			t.Fatalf("SnakeCase(%q) = %q, wanted %q", in, got, want)
		}
	}
}

func TestParseFieldType(t *testing.T) {
	for in, want := range map[string]FieldType{
		"string":  TypeString,
		"bool":    TypeBool,
		"int32":   TypeInt32,
		"int8":    TypeInt8,
		"uint64":  TypeUint64,
		"float64": TypeFloat64,
		"double":  TypeFloat64,
		" int32 ": TypeInt32,
	} {
		got, ok := ParseFieldType(in)
		if !ok {
			t.Fatalf("ParseFieldType(%q) not ok", in)
		}
		if got != want {
			t.Fatalf("ParseFieldType(%q) = %v, wanted %v", in, got, want)
		}
	}

	if _, ok := ParseFieldType("geometry_msgs/Pose"); ok {
		t.Fatal("a nested message type shouldn't parse")
	}
}

func TestAssignMappingField(t *testing.T) {
	for expr, want := range map[string]string{
		"_res.value":      "value",
		"_res.is_ok":      "is_ok",
		"_event.data.x":   "data.x", // split at the first ".", only
		"noseparatorhere": "",
	} {
		a := AssignMapping{Location: "m_x", Expr: expr}
		if got := a.Field(); got != want {
			t.Fatalf("Field of %q = %q, wanted %q", expr, got, want)
		}
	}
}

func TestDatamodelVar(t *testing.T) {
	m := &EventModel{
		Datamodel: []DatamodelVariable{
			{ID: "m_value", Type: TypeInt32},
			{ID: "m_result", Type: TypeBool},
		},
	}
	v, have := m.DatamodelVar("m_result")
	if !have || v.Type != TypeBool {
		t.Fatalf("wanted m_result bool, got %v (%v)", v, have)
	}
	if _, have := m.DatamodelVar("m_missing"); have {
		t.Fatal("m_missing shouldn't exist")
	}
}
