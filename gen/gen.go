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

// Package gen expands skill templates into generated source text.
//
// The token grammar is deliberately minimal: $path.name$, where path
// is "event" inside a repeated block and "skill" anywhere.  A
// repeated block is the lines between a line containing only
// "$foreach event$" and a line containing only "$end$"; the block is
// instantiated once per EventDescriptor, in encounter order.
//
// Expansion is two passes: repeated blocks first, then singletons.
// Any marker left after both passes is a fatal generation error.
package gen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Comcast/skillgen/core"
)

const (
	beginMarker = "$foreach event$"
	endMarker   = "$end$"
)

// tokenRe matches one substitutable token.
var tokenRe = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)\.([A-Za-z_][A-Za-z0-9_]*)\$`)

// leftoverRe matches anything that still looks like a marker after
// both passes, including stray block markers.
var leftoverRe = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_. ]*\$`)

// Template is one template: a name (for error reporting) and its
// text.
type Template struct {
	Name string
	Text string
}

// Set is the pair of templates a generation run expands: the
// declarations unit and the implementation unit.
type Set struct {
	Header Template
	Source Template
}

// Params tunes the emitted service-availability wait.  The retry
// policy applies only to the emitted wait; nothing in the generator
// itself ever retries.
type Params struct {
	// WaitRetries is the maximum number of bounded wait attempts
	// before the generated node terminates.  Default 10.
	WaitRetries int

	// WaitTimeoutSec is the per-attempt timeout in seconds.
	// Default 1.
	WaitTimeoutSec int
}

func (p Params) withDefaults() Params {
	if p.WaitRetries <= 0 {
		p.WaitRetries = 10
	}
	if p.WaitTimeoutSec <= 0 {
		p.WaitTimeoutSec = 1
	}
	return p
}

// Artifacts is the fully expanded output: no placeholder markers
// remain in either unit.
type Artifacts struct {
	Header string
	Source string
}

// UnresolvedPlaceholder occurs when a template references a token the
// model cannot supply.
type UnresolvedPlaceholder struct {
	Template string
	Name     string
	Line     int
}

func (e *UnresolvedPlaceholder) Error() string {
	return fmt.Sprintf("unresolved placeholder %s in template %s (line %d)",
		e.Name, e.Template, e.Line)
}

// BadTemplate occurs when the block markers themselves are wrong:
// unterminated or nested $foreach event$, or a dangling $end$.
type BadTemplate struct {
	Template string
	Line     int
	Msg      string
}

func (e *BadTemplate) Error() string {
	return fmt.Sprintf("bad template %s (line %d): %s", e.Template, e.Line, e.Msg)
}

// Generate expands the template set against a resolved model.
//
// Given identical inputs, the output is byte-identical: everything
// iterates over slices in model order.
func Generate(model *core.EventModel, set Set, p Params) (*Artifacts, error) {
	if !model.Resolved() {
		return nil, &core.NotResolved{SkillName: model.SkillName}
	}
	p = p.withDefaults()

	skill := skillTokens(model, p)

	header, err := expand(set.Header, model, skill, p)
	if err != nil {
		return nil, err
	}
	source, err := expand(set.Source, model, skill, p)
	if err != nil {
		return nil, err
	}

	return &Artifacts{Header: header, Source: source}, nil
}

// expand runs both passes over one template and validates marker
// coverage.
func expand(t Template, model *core.EventModel, skill map[string]string, p Params) (string, error) {
	lines := strings.Split(t.Text, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		switch strings.TrimSpace(lines[i]) {
		case beginMarker:
			end := -1
			for j := i + 1; j < len(lines); j++ {
				switch strings.TrimSpace(lines[j]) {
				case beginMarker:
					return "", &BadTemplate{t.Name, j + 1, "nested " + beginMarker}
				case endMarker:
					end = j
				}
				if 0 <= end {
					break
				}
			}
			if end < 0 {
				return "", &BadTemplate{t.Name, i + 1, "unterminated " + beginMarker}
			}
			block := lines[i+1 : end]
			for _, event := range model.Events {
				toks := eventTokens(event, p)
				for _, line := range block {
					out = append(out, substLine(line, "event", toks))
				}
			}
			i = end
		case endMarker:
			return "", &BadTemplate{t.Name, i + 1, endMarker + " without " + beginMarker}
		default:
			out = append(out, lines[i])
		}
	}

	// Singleton pass.
	for i, line := range out {
		out[i] = substLine(line, "skill", skill)
	}

	text := strings.Join(out, "\n")

	if tok := leftoverRe.FindString(text); tok != "" {
		return "", &UnresolvedPlaceholder{
			Template: t.Name,
			Name:     tok,
			Line:     tokenLine(t.Text, tok),
		}
	}

	return text, nil
}

// substLine substitutes the tokens of one path in one template line.
//
// If the line is nothing but indentation and a single token whose
// value spans several lines, every value line gets the token's
// indentation, so multi-line values (declarations, construction
// blocks) land correctly indented.
func substLine(line, path string, toks map[string]string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if m := tokenRe.FindStringSubmatch(trimmed); m != nil && m[0] == trimmed && m[1] == path {
		if value, have := toks[m[2]]; have {
			indent := line[:len(line)-len(trimmed)]
			parts := strings.Split(value, "\n")
			for i, part := range parts {
				if part != "" {
					parts[i] = indent + part
				}
			}
			return strings.Join(parts, "\n")
		}
	}
	return tokenRe.ReplaceAllStringFunc(line, func(tok string) string {
		m := tokenRe.FindStringSubmatch(tok)
		if m[1] != path {
			return tok
		}
		value, have := toks[m[2]]
		if !have {
			return tok
		}
		return value
	})
}

// tokenLine reports the 1-based line of the first occurrence of tok
// in the template text, or 0 if the token isn't literally there
// (i.e. it arrived via a substituted value).
func tokenLine(text, tok string) int {
	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(line, tok) {
			return i + 1
		}
	}
	return 0
}
