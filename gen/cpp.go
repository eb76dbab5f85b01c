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

import (
	"fmt"
	"strings"

	"github.com/Comcast/skillgen/core"
)

// cppMemberType maps a resolved FieldType to the C++ member type of
// the generated datamodel.
func cppMemberType(t core.FieldType) string {
	switch t {
	case core.TypeString:
		return "std::string"
	case core.TypeBool:
		return "bool"
	case core.TypeInt8:
		return "int8_t"
	case core.TypeInt16:
		return "int16_t"
	case core.TypeInt32:
		return "int32_t"
	case core.TypeInt64:
		return "int64_t"
	case core.TypeUint8:
		return "uint8_t"
	case core.TypeUint16:
		return "uint16_t"
	case core.TypeUint32:
		return "uint32_t"
	case core.TypeUint64:
		return "uint64_t"
	case core.TypeFloat32:
		return "float"
	case core.TypeFloat64:
		return "double"
	}
	return "std::string"
}

// accessExpr is the single point where a resolved type changes the
// shape of emitted code.  A string-typed field gets the raw character
// data accessor; everything else is direct access.
func accessExpr(field core.ResolvedField) string {
	access := "response->" + field.Name
	switch field.Type {
	case core.TypeString:
		return access + ".c_str()"
	default:
		return access
	}
}

// interfaceParts splits a compound interface identifier into package
// and type name.  The package may be empty.
func interfaceParts(iface string) (pkg, typ string) {
	if i := strings.LastIndex(iface, "/"); 0 <= i {
		return iface[:i], iface[i+1:]
	}
	return "", iface
}

// eventTokens builds the substitution table for one repeated-block
// instantiation.
func eventTokens(e *core.EventDescriptor, p Params) map[string]string {
	kind := "srv"
	if e.TopicName != "" {
		kind = "msg"
	}

	pkg, typ := interfaceParts(e.InterfaceName)
	cppType := typ
	includePath := kind + "/" + e.ServiceTypeSnake + ".hpp"
	if pkg != "" {
		cppType = pkg + "::" + kind + "::" + typ
		includePath = pkg + "/" + includePath
	}

	responseType := cppType + "::SharedPtr"
	declaration := fmt.Sprintf("rclcpp::Subscription<%s>::SharedPtr %s;", cppType, e.ClientName)
	if e.TopicName == "" {
		responseType = cppType + "::Response::SharedPtr"
		declaration = fmt.Sprintf("rclcpp::Client<%s>::SharedPtr %s;", cppType, e.ClientName)
	}

	return map[string]string{
		"nodeName":            e.NodeName,
		"clientName":          e.ClientName,
		"interfaceName":       e.InterfaceName,
		"functionName":        e.FunctionName,
		"serviceTypeName":     e.ServiceTypeName,
		"serviceTypeSnake":    e.ServiceTypeSnake,
		"serverName":          e.ServerName,
		"topicName":           e.TopicName,
		"target":              e.Target(),
		"cppType":             cppType,
		"includePath":         includePath,
		"responseType":        responseType,
		"callbackName":        "on" + e.ServiceTypeName + "Response",
		"clientDeclaration":   declaration,
		"clientConstruction":  clientConstruction(e, cppType, p),
		"responseAssignments": responseAssignments(e),
		"callMethod":          callMethod(e, cppType),
		"callDeclaration":     callDeclaration(e),
	}
}

// callDeclaration is the header-side declaration of the request
// helper.  Topic subscriptions have no request side, so nothing is
// declared for them.
func callDeclaration(e *core.EventDescriptor) string {
	if e.TopicName != "" {
		return ""
	}
	return "void call" + e.FunctionName + "();"
}

// callMethod emits the request helper for a service event: build a
// request, send it, and hand the response to the typed callback.  The
// helper only uses the already-acquired client.
func callMethod(e *core.EventDescriptor, cppType string) string {
	if e.TopicName != "" {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "void $skill.className$::call%s()\n", e.FunctionName)
	b.WriteString("{\n")
	fmt.Fprintf(&b, "    auto request = std::make_shared<%s::Request>();\n", cppType)
	fmt.Fprintf(&b, "    %s->async_send_request(request,\n", e.ClientName)
	fmt.Fprintf(&b, "        [this](rclcpp::Client<%s>::SharedFuture future) {\n", cppType)
	fmt.Fprintf(&b, "            on%sResponse(future.get());\n", e.ServiceTypeName)
	b.WriteString("        });\n")
	b.WriteString("}")
	return b.String()
}

// responseAssignments emits the typed field-access lines of one
// response callback.
func responseAssignments(e *core.EventDescriptor) string {
	if len(e.ResolvedFields) == 0 {
		return "(void)response;"
	}
	lines := make([]string, 0, len(e.ResolvedFields))
	for _, field := range e.ResolvedFields {
		lines = append(lines, field.Datamodel+" = "+accessExpr(field)+";")
	}
	return strings.Join(lines, "\n")
}

// clientConstruction emits the start-phase construction of one client
// or subscriber.  This text goes into the node's start phase only;
// recurring callbacks must never construct resources.
//
// For a service client the construction is followed by the bounded
// availability wait.  The wait is the only blocking operation the
// generator emits, and it has an explicit finite bound and an
// explicit cancellation path: exhausting the retry budget, or an
// observed runtime shutdown, terminates the process.  No degraded
// operation.
func clientConstruction(e *core.EventDescriptor, cppType string, p Params) string {
	if e.TopicName != "" {
		return fmt.Sprintf(`%s = this->create_subscription<%s>(
    %q, 10, std::bind(&$skill.className$::%s, this, std::placeholders::_1));`,
			e.ClientName, cppType, e.TopicName, "on"+e.ServiceTypeName+"Response")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s = this->create_client<%s>(%q);\n", e.ClientName, cppType, e.ServerName)
	b.WriteString("{\n")
	b.WriteString("    // Uninitialized -> AwaitingServices -> Ready, or Failed (terminate).\n")
	b.WriteString("    int attempts = 0;\n")
	fmt.Fprintf(&b, "    while (!%s->wait_for_service(std::chrono::seconds(%d))) {\n",
		e.ClientName, p.WaitTimeoutSec)
	b.WriteString("        if (!rclcpp::ok()) {\n")
	fmt.Fprintf(&b, "            RCLCPP_ERROR(this->get_logger(), \"shutdown while waiting for %%s\", %q);\n",
		e.ServerName)
	b.WriteString("            std::exit(EXIT_FAILURE);\n")
	b.WriteString("        }\n")
	fmt.Fprintf(&b, "        if (%d <= ++attempts) {\n", p.WaitRetries)
	fmt.Fprintf(&b, "            RCLCPP_ERROR(this->get_logger(), \"service %%s unavailable after %%d attempts\", %q, attempts);\n",
		e.ServerName)
	b.WriteString("            std::exit(EXIT_FAILURE);\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}")
	return b.String()
}

// skillTokens builds the model-wide singleton substitution table.
func skillTokens(model *core.EventModel, p Params) map[string]string {
	name := model.SkillName
	snake := core.SnakeCase(name)

	var decls, inits []string
	for _, v := range model.Datamodel {
		decls = append(decls, cppMemberType(v.Type)+" "+v.ID+";")
		if v.Expr != "" {
			inits = append(inits, v.ID+" = "+v.Expr+";")
		}
	}
	declarations := strings.Join(decls, "\n")
	if declarations == "" {
		declarations = "// no datamodel"
	}
	init := strings.Join(inits, "\n")
	if init == "" {
		init = "// no datamodel initialization"
	}

	return map[string]string{
		"name":                  name,
		"className":             name,
		"nodeName":              snake,
		"headerGuard":           strings.ToUpper(snake) + "_H",
		"rootState":             model.RootState,
		"datamodelDeclarations": declarations,
		"datamodelInit":         init,
		"waitRetries":           fmt.Sprintf("%d", p.WaitRetries),
		"waitTimeoutSec":        fmt.Sprintf("%d", p.WaitTimeoutSec),
	}
}
