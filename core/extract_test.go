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
	"errors"
	"testing"
)

var testBehavior = []byte(`
<scxml name="NavigateSkill" initial="idle">
  <datamodel>
    <data id="m_value" type="int32" expr="0"/>
    <data id="m_result" type="bool" expr="false"/>
  </datamodel>
  <state id="idle">
    <transition event="CMD_START" target="getting" cond="m_value == 0"/>
  </state>
  <state id="getting">
    <onresponse interface="blackboard_interfaces/GetIntBlackboard"
                function="GetInt"
                server="/blackboard/get_int"
                target="done">
      <assign location="m_value" expr="_res.value"/>
      <assign location="m_result" expr="_res.is_ok"/>
    </onresponse>
  </state>
  <state id="done"/>
</scxml>
`)

func TestExtract(t *testing.T) {
	model, err := Extract(testBehavior)
	if err != nil {
		t.Fatal(err)
	}

	if model.SkillName != "NavigateSkill" {
		t.Fatalf("bad skill name %q", model.SkillName)
	}
	if model.RootState != "idle" {
		t.Fatalf("bad root state %q", model.RootState)
	}

	if len(model.Datamodel) != 2 {
		t.Fatalf("wanted 2 datamodel vars, got %d", len(model.Datamodel))
	}
	if model.Datamodel[0].ID != "m_value" || model.Datamodel[0].Type != TypeInt32 {
		t.Fatalf("bad first datamodel var %#v", model.Datamodel[0])
	}

	if len(model.Events) != 1 {
		t.Fatalf("wanted 1 event, got %d", len(model.Events))
	}
	event := model.Events[0]

	// The map records the suffix of each assign expr after the
	// first "." as a field name.
	if got := event.ResponseFieldToDatamodel["value"]; got != "m_value" {
		t.Fatalf("value mapped to %q", got)
	}
	if got := event.ResponseFieldToDatamodel["is_ok"]; got != "m_result" {
		t.Fatalf("is_ok mapped to %q", got)
	}

	// Encounter order.
	if len(event.InterfaceFields) != 2 ||
		event.InterfaceFields[0] != "value" ||
		event.InterfaceFields[1] != "is_ok" {
		t.Fatalf("bad field order %v", event.InterfaceFields)
	}

	// The message-type identifier is the suffix of the compound
	// interface identifier, not the function name.
	if event.ServiceTypeName != "GetIntBlackboard" {
		t.Fatalf("serviceTypeName = %q", event.ServiceTypeName)
	}
	if event.FunctionName != "GetInt" {
		t.Fatalf("functionName = %q", event.FunctionName)
	}
	if event.ServiceTypeSnake != "get_int_blackboard" {
		t.Fatalf("serviceTypeSnake = %q", event.ServiceTypeSnake)
	}
	if event.ClientName != "m_getIntClient" {
		t.Fatalf("clientName = %q", event.ClientName)
	}
	if event.NodeName != "getting" {
		t.Fatalf("nodeName = %q", event.NodeName)
	}

	if len(model.States) != 3 {
		t.Fatalf("wanted 3 states, got %d", len(model.States))
	}
}

func TestExtractEmptyResponseBlock(t *testing.T) {
	// A response-handling block with zero assigns still yields a
	// complete descriptor: the client must be constructed even
	// when nothing consumes its result.
	src := []byte(`
<scxml name="PingSkill" initial="only">
  <state id="only">
    <onresponse interface="diagnostics/Ping" function="Ping"
                server="/diagnostics/ping" target="only"/>
  </state>
</scxml>
`)
	model, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(model.Events) != 1 {
		t.Fatalf("wanted 1 event, got %d", len(model.Events))
	}
	event := model.Events[0]
	if event.ClientName == "" || event.ServiceTypeName != "Ping" {
		t.Fatalf("incomplete descriptor %#v", event)
	}
	if len(event.InterfaceFields) != 0 {
		t.Fatalf("unexpected fields %v", event.InterfaceFields)
	}
}

func TestExtractLastWriteWins(t *testing.T) {
	src := []byte(`
<scxml name="DupSkill" initial="s">
  <state id="s">
    <onresponse interface="pkg/Thing" function="Get" server="/thing" target="s">
      <assign location="m_first" expr="_res.value"/>
      <assign location="m_second" expr="_res.value"/>
    </onresponse>
  </state>
</scxml>
`)
	model, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	event := model.Events[0]
	if got := event.ResponseFieldToDatamodel["value"]; got != "m_second" {
		t.Fatalf("wanted last write to win, got %q", got)
	}
	// Both encounters recorded, no de-duplication.
	if len(event.InterfaceFields) != 2 {
		t.Fatalf("wanted 2 encounters, got %v", event.InterfaceFields)
	}
}

func TestExtractTopic(t *testing.T) {
	src := []byte(`
<scxml name="ListenSkill" initial="s">
  <state id="s">
    <onresponse interface="std_msgs/String" topic="/chatter" target="s">
      <assign location="m_heard" expr="_msg.data"/>
    </onresponse>
  </state>
</scxml>
`)
	model, err := Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	event := model.Events[0]
	if event.TopicName != "/chatter" {
		t.Fatalf("topicName = %q", event.TopicName)
	}
	if event.ClientName != "m_stringSubscriber" {
		t.Fatalf("clientName = %q", event.ClientName)
	}
	if event.Target() != "/chatter" {
		t.Fatalf("target = %q", event.Target())
	}
}

func TestExtractFatal(t *testing.T) {
	fatal := []struct {
		name string
		src  string
		want interface{}
	}{
		{"unparseable", `<scxml name="X"><state`, &BadXML{}},
		{"no skill name", `<scxml initial="s"><state id="s"/></scxml>`, &MissingAttr{}},
		{"no state id", `<scxml name="X"><state/></scxml>`, &MissingAttr{}},
		{"no data id", `<scxml name="X"><datamodel><data type="int32"/></datamodel></scxml>`, &MissingAttr{}},
		{"no interface", `<scxml name="X"><state id="s"><onresponse server="/x" target="s"/></state></scxml>`, &MissingAttr{}},
		{"no server or topic", `<scxml name="X"><state id="s"><onresponse interface="p/T" function="F" target="s"/></state></scxml>`, &MissingAttr{}},
		{"no function for service", `<scxml name="X"><state id="s"><onresponse interface="p/T" server="/x" target="s"/></state></scxml>`, &MissingAttr{}},
		{"no assign location", `<scxml name="X"><state id="s"><onresponse interface="p/T" function="F" server="/x" target="s"><assign expr="_res.v"/></onresponse></state></scxml>`, &MissingAttr{}},
		{"assign names no field", `<scxml name="X"><state id="s"><onresponse interface="p/T" function="F" server="/x" target="s"><assign location="m_v" expr="nodot"/></onresponse></state></scxml>`, &BadAssign{}},
		{"bad cond", `<scxml name="X"><state id="s"><transition event="E" target="s" cond="1 ==="/></state></scxml>`, &BadExpression{}},
		{"bad data expr", `<scxml name="X"><datamodel><data id="m_v" type="int32" expr="((("/></datamodel></scxml>`, &BadExpression{}},
	}

	for _, c := range fatal {
		_, err := Extract([]byte(c.src))
		if err == nil {
			t.Fatalf("%s: wanted an error", c.name)
		}
		switch c.want.(type) {
		case *BadXML:
			var e *BadXML
			if !errors.As(err, &e) {
				t.Fatalf("%s: wanted BadXML, got %T: %v", c.name, err, err)
			}
		case *MissingAttr:
			var e *MissingAttr
			if !errors.As(err, &e) {
				t.Fatalf("%s: wanted MissingAttr, got %T: %v", c.name, err, err)
			}
		case *BadAssign:
			var e *BadAssign
			if !errors.As(err, &e) {
				t.Fatalf("%s: wanted BadAssign, got %T: %v", c.name, err, err)
			}
		case *BadExpression:
			var e *BadExpression
			if !errors.As(err, &e) {
				t.Fatalf("%s: wanted BadExpression, got %T: %v", c.name, err, err)
			}
		}
	}
}
