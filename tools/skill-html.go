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
	"html"
	"io"

	"github.com/Comcast/skillgen/core"

	md "github.com/russross/blackfriday/v2"
)

// RenderSkillHTML writes an HTML summary of the behavior model:
// datamodel, states, and per-event interface and type information.
// State <doc> text is treated as markdown.
func RenderSkillHTML(model *core.EventModel, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	{ // Datamodel
		f(`<div class="datamodel"><h2>Datamodel</h2><table>`)
		f(`<tr><th>id</th><th>type</th><th>expr</th></tr>`)
		for _, v := range model.Datamodel {
			f(`<tr><td><code>%s</code></td><td>%s</td><td><code>%s</code></td></tr>`,
				html.EscapeString(v.ID), v.Type, html.EscapeString(v.Expr))
		}
		f(`</table></div>`)
	}

	{ // States
		f(`<div class="states"><h2>States</h2><table>`)
		for _, state := range model.States {
			f(`<tr class="state"><td><span id="%s" class="stateName">%s</span></td><td>`,
				state.ID, state.ID)
			if state.Doc != "" {
				f(`<div class="stateDoc doc">%s</div>`, md.Run([]byte(state.Doc)))
			}
			f(`<table>`)
			for _, t := range state.Transitions {
				f(`<tr><td><code>%s</code></td>`, html.EscapeString(t.Event))
				if t.Cond != "" {
					f(`<td><code>%s</code></td>`, html.EscapeString(t.Cond))
				} else {
					f(`<td></td>`)
				}
				f(`<td><a href="#%s"><code>%s</code></a></td></tr>`, t.Target, t.Target)
			}
			f(`</table>`)
			f(`</td></tr>`)
		}
		f(`</table></div>`)
	}

	{ // Events
		f(`<div class="events"><h2>Service and topic events</h2>`)
		for _, event := range model.Events {
			f(`<div class="event"><h3>%s</h3><table>`, html.EscapeString(event.InterfaceName))
			f(`<tr><td>state</td><td><a href="#%s"><code>%s</code></a></td></tr>`,
				event.NodeName, event.NodeName)
			f(`<tr><td>operation</td><td><code>%s</code></td></tr>`, event.FunctionName)
			f(`<tr><td>message type</td><td><code>%s</code> (<code>%s</code>)</td></tr>`,
				event.ServiceTypeName, event.ServiceTypeSnake)
			f(`<tr><td>target</td><td><code>%s</code></td></tr>`, html.EscapeString(event.Target()))
			f(`<tr><td>client</td><td><code>%s</code></td></tr>`, event.ClientName)
			f(`</table>`)
			if 0 < len(event.ResolvedFields) {
				f(`<table class="fields"><tr><th>field</th><th>type</th><th>datamodel</th></tr>`)
				for _, field := range event.ResolvedFields {
					f(`<tr><td><code>%s</code></td><td>%s</td><td><code>%s</code></td></tr>`,
						html.EscapeString(field.Name), field.Type, html.EscapeString(field.Datamodel))
				}
				f(`</table>`)
			}
			f(`</div>`)
		}
		f(`</div>`)
	}

	return nil
}

// RenderSkillPage wraps RenderSkillHTML in a complete page.
func RenderSkillPage(model *core.EventModel, out io.Writer, cssFiles []string) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/skill-html.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(model.SkillName))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(model.SkillName))

	if err := RenderSkillHTML(model, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}
