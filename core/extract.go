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
	"encoding/xml"
	"strings"

	"github.com/dop251/goja"
)

// The recognized subset of the behavior description grammar.  We
// deliberately interpret only what the generator needs: datamodel
// declarations, states, transitions, response-handling blocks, and
// assign operations.  Everything else in the document is ignored.

type xmlBehavior struct {
	XMLName   xml.Name      `xml:"scxml"`
	Name      string        `xml:"name,attr"`
	Initial   string        `xml:"initial,attr"`
	Doc       string        `xml:"doc"`
	Datamodel *xmlDatamodel `xml:"datamodel"`
	States    []xmlState    `xml:"state"`
}

type xmlDatamodel struct {
	Data []xmlData `xml:"data"`
}

type xmlData struct {
	ID   string `xml:"id,attr"`
	Type string `xml:"type,attr"`
	Expr string `xml:"expr,attr"`
}

type xmlState struct {
	ID          string          `xml:"id,attr"`
	Doc         string          `xml:"doc"`
	Transitions []xmlTransition `xml:"transition"`
	OnResponses []xmlOnResponse `xml:"onresponse"`
	States      []xmlState      `xml:"state"`
}

type xmlTransition struct {
	Event  string `xml:"event,attr"`
	Target string `xml:"target,attr"`
	Cond   string `xml:"cond,attr"`
}

// xmlOnResponse is a response-handling block: a section of a state
// tied to a service/topic result, containing assign operations.
type xmlOnResponse struct {
	Interface string      `xml:"interface,attr"`
	Function  string      `xml:"function,attr"`
	Server    string      `xml:"server,attr"`
	Topic     string      `xml:"topic,attr"`
	Target    string      `xml:"target,attr"`
	Assigns   []xmlAssign `xml:"assign"`
}

type xmlAssign struct {
	Location string `xml:"location,attr"`
	Expr     string `xml:"expr,attr"`
}

// Extract parses a behavior description into a raw EventModel.
//
// The result is raw in the sense that no field types have been
// resolved yet; run Resolve (with a catalog) before handing the model
// to the template engine.
func Extract(src []byte) (*EventModel, error) {
	var doc xmlBehavior
	if err := xml.Unmarshal(src, &doc); err != nil {
		return nil, &BadXML{Err: err}
	}

	if doc.Name == "" {
		return nil, &MissingAttr{Element: "scxml", Attr: "name"}
	}

	model := &EventModel{
		SkillName: doc.Name,
		RootState: doc.Initial,
	}

	if doc.Datamodel != nil {
		for _, d := range doc.Datamodel.Data {
			if d.ID == "" {
				return nil, &MissingAttr{Element: "data", Attr: "id"}
			}
			typ, known := ParseFieldType(d.Type)
			if !known {
				model.warnf("datamodel %q: unknown type %q, using string", d.ID, d.Type)
			}
			if err := checkExpression(`data "`+d.ID+`" expr`, d.Expr); err != nil {
				return nil, err
			}
			model.Datamodel = append(model.Datamodel, DatamodelVariable{
				ID:   d.ID,
				Type: typ,
				Expr: d.Expr,
			})
		}
	}

	for i := range doc.States {
		if err := extractState(model, &doc.States[i]); err != nil {
			return nil, err
		}
	}

	return model, nil
}

// extractState records one state (and, recursively, its children).
func extractState(model *EventModel, x *xmlState) error {
	if x.ID == "" {
		return &MissingAttr{Element: "state", Attr: "id"}
	}

	state := State{ID: x.ID, Doc: strings.TrimSpace(x.Doc)}

	for _, t := range x.Transitions {
		if err := checkExpression(`transition cond in state "`+x.ID+`"`, t.Cond); err != nil {
			return err
		}
		state.Transitions = append(state.Transitions, Transition{
			Event:  t.Event,
			Target: t.Target,
			Cond:   t.Cond,
		})
	}

	for _, r := range x.OnResponses {
		event, transition, err := extractOnResponse(model, x.ID, &r)
		if err != nil {
			return err
		}
		state.Transitions = append(state.Transitions, transition)
		model.Events = append(model.Events, event)
	}

	model.States = append(model.States, state)

	for i := range x.States {
		if err := extractState(model, &x.States[i]); err != nil {
			return err
		}
	}

	return nil
}

// extractOnResponse builds the EventDescriptor for one
// response-handling block.
//
// A block with zero assign children still produces a complete
// descriptor: every declared interaction must yield a fully
// constructed client at startup even when nothing consumes its
// result.
func extractOnResponse(model *EventModel, nodeName string, r *xmlOnResponse) (*EventDescriptor, Transition, error) {
	var none Transition

	if r.Interface == "" {
		return nil, none, &MissingAttr{Element: "onresponse", Attr: "interface"}
	}
	if r.Target == "" {
		return nil, none, &MissingAttr{Element: "onresponse", Attr: "target"}
	}
	if r.Server == "" && r.Topic == "" {
		return nil, none, &MissingAttr{Element: "onresponse", Attr: "server"}
	}

	// The compound interface identifier splits at the last "/".
	// The suffix is the message-type identifier, which is not the
	// same thing as the function name.
	typeName := r.Interface
	if i := strings.LastIndex(r.Interface, "/"); 0 <= i {
		typeName = r.Interface[i+1:]
	}

	function := r.Function
	if function == "" {
		if r.Server != "" {
			return nil, none, &MissingAttr{Element: "onresponse", Attr: "function"}
		}
		// Topic subscriptions don't name an operation.
		function = typeName
	}

	event := &EventDescriptor{
		NodeName:                 nodeName,
		ClientName:               clientName(function, r.Topic != ""),
		InterfaceName:            r.Interface,
		FunctionName:             function,
		ServiceTypeName:          typeName,
		ServiceTypeSnake:         SnakeCase(typeName),
		ServerName:               r.Server,
		TopicName:                r.Topic,
		ResponseFieldToDatamodel: map[string]string{},
	}

	for _, a := range r.Assigns {
		if a.Location == "" {
			return nil, none, &MissingAttr{Element: "assign", Attr: "location"}
		}
		if a.Expr == "" {
			return nil, none, &MissingAttr{Element: "assign", Attr: "expr"}
		}
		if err := checkExpression(`assign in state "`+nodeName+`"`, a.Expr); err != nil {
			return nil, none, err
		}
		m := AssignMapping{Location: a.Location, Expr: a.Expr}
		field := m.Field()
		if field == "" {
			return nil, none, &BadAssign{NodeName: nodeName, Expr: a.Expr}
		}
		if prev, have := event.ResponseFieldToDatamodel[field]; have && prev != a.Location {
			model.warnf("state %q: field %q reassigned from %q to %q (last write wins)",
				nodeName, field, prev, a.Location)
		}
		event.ResponseFieldToDatamodel[field] = a.Location
		// Encounter order, no de-duplication.
		event.InterfaceFields = append(event.InterfaceFields, field)
	}

	transition := Transition{
		Event:  r.Interface + "." + function + ".response",
		Target: r.Target,
	}
	for _, a := range r.Assigns {
		transition.Assigns = append(transition.Assigns, AssignMapping{
			Location: a.Location,
			Expr:     a.Expr,
		})
	}

	return event, transition, nil
}

// clientName derives the generated client member name from the
// operation id: "GetInt" becomes "m_getIntClient".
func clientName(function string, topic bool) string {
	name := function
	if 0 < len(name) {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	if topic {
		return "m_" + name + "Subscriber"
	}
	return "m_" + name + "Client"
}

// checkExpression compile-checks an ECMAScript expression attribute.
// Datamodel exprs, transition conds, and assign exprs are all
// ECMAScript, so we can reject typos at extraction time instead of
// letting them leak into generated code.
func checkExpression(where, src string) error {
	if src == "" {
		return nil
	}
	if _, err := goja.Compile(where, src, true); err != nil {
		return &BadExpression{Where: where, Src: src, Err: err}
	}
	return nil
}
