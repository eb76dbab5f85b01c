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

package gen

// The built-in generic skill templates.  A caller can swap in its own
// Set (see cmd/skillgen), but these are what most behaviors use.

// DefaultHeaderTemplate is the declarations unit.
const DefaultHeaderTemplate = `// Generated by skillgen for skill $skill.name$.  Do not edit.
#ifndef $skill.headerGuard$
#define $skill.headerGuard$

#include <cstdlib>
#include <string>

#include <rclcpp/rclcpp.hpp>
$foreach event$
#include <$event.includePath$>
$end$

class $skill.className$ : public rclcpp::Node
{
public:
    $skill.className$();

    // start acquires every client and subscriber exactly once.
    // Callbacks below only use already-acquired resources.
    void start();

$foreach event$
    void $event.callbackName$(const $event.responseType$ response);
    $event.callDeclaration$
$end$

private:
$foreach event$
    $event.clientDeclaration$
$end$

    $skill.datamodelDeclarations$
};

#endif // $skill.headerGuard$
`

// DefaultSourceTemplate is the implementation unit.
const DefaultSourceTemplate = `// Generated by skillgen for skill $skill.name$.  Do not edit.
#include "$skill.className$.h"

$skill.className$::$skill.className$()
: rclcpp::Node("$skill.nodeName$")
{
    $skill.datamodelInit$
}

void $skill.className$::start()
{
$foreach event$
    $event.clientConstruction$
$end$
}

$foreach event$
void $skill.className$::$event.callbackName$(const $event.responseType$ response)
{
    $event.responseAssignments$
}

$event.callMethod$
$end$
`

// DefaultSet returns the built-in template set.
func DefaultSet() Set {
	return Set{
		Header: Template{Name: "builtin-header", Text: DefaultHeaderTemplate},
		Source: Template{Name: "builtin-source", Text: DefaultSourceTemplate},
	}
}
