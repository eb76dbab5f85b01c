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

// MessageKind distinguishes the request and response field namespaces
// of an interface.
type MessageKind int

const (
	Request MessageKind = iota
	Response
)

func (k MessageKind) String() string {
	if k == Request {
		return "request"
	}
	return "response"
}

// TypeCatalog is what Resolve needs from an interface type catalog.
// Absence is an expected, handled case (ok=false), not an error.
type TypeCatalog interface {
	LookupType(iface string, kind MessageKind, field string) (FieldType, bool)
}

// Resolve annotates every response field of every EventDescriptor
// with a resolved type, consulting the catalog.
//
// Fallbacks, in order:
//   - a field with no assign mapping gets the datamodel variable
//     "m_" + fieldName (best effort, not a failure);
//   - a field with no catalog entry takes the declared type of the
//     datamodel variable "m_" + fieldName if one exists, else the
//     string type (the pre-type-aware baseline), with a warning.
//
// Field order follows the extractor's encounter order.
func Resolve(model *EventModel, cat TypeCatalog) error {
	for _, event := range model.Events {
		event.ResolvedFields = event.ResolvedFields[:0]
		for _, field := range event.InterfaceFields {
			dm, have := event.ResponseFieldToDatamodel[field]
			if !have {
				dm = "m_" + field
			}

			typ, found := FieldType(TypeString), false
			if cat != nil {
				typ, found = cat.LookupType(event.InterfaceName, Response, field)
			}
			if !found {
				if v, declared := model.DatamodelVar("m_" + field); declared {
					typ, found = v.Type, true
				}
			}
			if !found {
				typ = TypeString
				model.warnf("no declared type for %s response field %q, defaulting to string",
					event.InterfaceName, field)
			}

			event.ResolvedFields = append(event.ResolvedFields, ResolvedField{
				Name:      field,
				Datamodel: dm,
				Type:      typ,
			})
		}
	}

	model.resolved = true
	return nil
}
