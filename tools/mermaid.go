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
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/skillgen/core"
)

type MermaidOpts struct {
	// ShowConds will include transition cond expressions in edge
	// labels.
	ShowConds bool `json:"showConds"`

	// ResponseFill is the fill color for states that handle a
	// service/topic response.
	ResponseFill string `json:"responseFill,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given behavior model.
func Mermaid(model *core.EventModel, w io.Writer, opts *MermaidOpts) error {

	if opts == nil {
		opts = &MermaidOpts{
			ShowConds:    true,
			ResponseFill: "#bcf2db",
		}
	}

	responders := make(map[string]bool, len(model.Events))
	for _, event := range model.Events {
		responders[event.NodeName] = true
	}

	fmt.Fprintf(w, "graph TB\n")

	nids := make(map[string]string)
	num := 0

	node := func(name string) string {
		if nid, already := nids[name]; already {
			return nid
		}
		num++
		nid := fmt.Sprintf("n%d", num)
		nids[name] = nid

		if responders[name] {
			fmt.Fprintf(w, "  %s[\"%s\"]\n", nid, name)
			if opts.ResponseFill != "" {
				fmt.Fprintf(w, "  style %s fill:%s\n", nid, opts.ResponseFill)
			}
		} else {
			fmt.Fprintf(w, "  %s(\"%s\")\n", nid, name)
		}

		return nid
	}

	for _, state := range model.States {
		from := node(state.ID)
		for _, t := range state.Transitions {
			if t.Target == "" {
				continue
			}
			to := node(t.Target)
			label := t.Event
			if opts.ShowConds && t.Cond != "" {
				label += " [" + t.Cond + "]"
			}
			label = strings.Replace(label, `"`, `'`, -1)
			if label == "" {
				fmt.Fprintf(w, "  %s --> %s\n", from, to)
			} else {
				fmt.Fprintf(w, "  %s -->|\"%s\"| %s\n", from, to, label)
			}
		}
	}

	return nil
}
