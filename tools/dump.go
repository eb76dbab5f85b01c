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

package tools

import (
	"io"

	"github.com/Comcast/skillgen/core"

	"gopkg.in/yaml.v2"
)

// DumpModel writes the extracted (and possibly resolved) model as
// YAML.  Handy for eyeballing what the extractor and resolver actually
// saw before blaming a template.
func DumpModel(model *core.EventModel, w io.Writer) error {
	type field struct {
		Name      string `yaml:"name"`
		Datamodel string `yaml:"datamodel"`
		Type      string `yaml:"type"`
	}
	type event struct {
		State     string            `yaml:"state"`
		Interface string            `yaml:"interface"`
		Function  string            `yaml:"function,omitempty"`
		Type      string            `yaml:"type"`
		TypeSnake string            `yaml:"typeSnake"`
		Server    string            `yaml:"server,omitempty"`
		Topic     string            `yaml:"topic,omitempty"`
		Client    string            `yaml:"client"`
		Mappings  map[string]string `yaml:"mappings,omitempty"`
		Fields    []field           `yaml:"fields,omitempty"`
	}
	type variable struct {
		ID   string `yaml:"id"`
		Type string `yaml:"type"`
		Expr string `yaml:"expr,omitempty"`
	}

	dump := struct {
		Skill     string     `yaml:"skill"`
		RootState string     `yaml:"rootState"`
		Datamodel []variable `yaml:"datamodel,omitempty"`
		Events    []event    `yaml:"events,omitempty"`
	}{
		Skill:     model.SkillName,
		RootState: model.RootState,
	}

	for _, v := range model.Datamodel {
		dump.Datamodel = append(dump.Datamodel, variable{
			ID:   v.ID,
			Type: v.Type.String(),
			Expr: v.Expr,
		})
	}

	for _, e := range model.Events {
		ev := event{
			State:     e.NodeName,
			Interface: e.InterfaceName,
			Function:  e.FunctionName,
			Type:      e.ServiceTypeName,
			TypeSnake: e.ServiceTypeSnake,
			Server:    e.ServerName,
			Topic:     e.TopicName,
			Client:    e.ClientName,
			Mappings:  e.ResponseFieldToDatamodel,
		}
		for _, f := range e.ResolvedFields {
			ev.Fields = append(ev.Fields, field{
				Name:      f.Name,
				Datamodel: f.Datamodel,
				Type:      f.Type.String(),
			})
		}
		dump.Events = append(dump.Events, ev)
	}

	bs, err := yaml.Marshal(&dump)
	if err != nil {
		return err
	}
	_, err = w.Write(bs)
	return err
}
