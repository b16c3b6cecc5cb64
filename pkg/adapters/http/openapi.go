package http

import (
	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

const schemaPrefix = "#/components/schemas/"

// OpenAPI describes the JSON tool API. Every tool gets its own POST
// operation whose request schema is derived from the tool's parameters.
func OpenAPI(tools []domain.Tool, version string) *openapi3.T {
	errSchema := errorSchema()
	toolSchema := toolDescriptorSchema()

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "toolshed",
			Description: "Developer utilities: encoders, formatters, generators, date and text tools.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Error": openapi3.NewSchemaRef("", errSchema),
				"Tool":  openapi3.NewSchemaRef("", toolSchema),
			},
		},
	}

	errRef := openapi3.NewSchemaRef(schemaPrefix+"Error", errSchema)
	toolRef := openapi3.NewSchemaRef(schemaPrefix+"Tool", toolSchema)

	doc.Paths.Set("/api/tools", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listTools",
			Summary:     "List every tool",
			Tags:        []string{"meta"},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, jsonResponse("Tool descriptors in display order.",
					openapi3.NewObjectSchema().WithProperty("tools", openapi3.NewArraySchema().WithItems(toolSchema)))),
			),
		},
	})

	doc.Paths.Set("/api/whoami", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "whoami",
			Summary:     "Echo the caller's address and user agent",
			Tags:        []string{"meta"},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, jsonResponse("Caller details.",
					openapi3.NewObjectSchema().
						WithProperty("ip", openapi3.NewStringSchema()).
						WithProperty("user_agent", openapi3.NewStringSchema()))),
			),
		},
	})

	for _, tool := range tools {
		doc.Paths.Set("/api/tools/"+tool.Name, &openapi3.PathItem{
			Summary: tool.Title,
			Get: &openapi3.Operation{
				OperationID: "describe-" + tool.Name,
				Summary:     "Describe " + tool.Name,
				Tags:        []string{string(tool.Category)},
				Responses: openapi3.NewResponses(
					openapi3.WithStatus(200, &openapi3.ResponseRef{
						Value: openapi3.NewResponse().WithDescription("Tool descriptor.").WithJSONSchemaRef(toolRef),
					}),
				),
			},
			Post: &openapi3.Operation{
				OperationID: tool.Name,
				Summary:     tool.Title,
				Description: tool.Description,
				Tags:        []string{string(tool.Category)},
				RequestBody: &openapi3.RequestBodyRef{
					Value: openapi3.NewRequestBody().
						WithRequired(hasRequired(tool)).
						WithJSONSchema(argsSchema(tool)),
				},
				Responses: openapi3.NewResponses(
					openapi3.WithStatus(200, jsonResponse("Tool result.",
						openapi3.NewObjectSchema().
							WithProperty("tool", openapi3.NewStringSchema()).
							WithProperty("result", &openapi3.Schema{}))),
					openapi3.WithStatus(400, errorResponse("Malformed request body.", errRef)),
					openapi3.WithStatus(422, errorResponse("The input could not be processed.", errRef)),
					openapi3.WithStatus(429, errorResponse("Rate limit exceeded.", errRef)),
				),
			},
		})
	}
	return doc
}

func argsSchema(tool domain.Tool) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for _, p := range tool.Params {
		s.WithProperty(p.Name, paramSchema(p))
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

func paramSchema(p domain.Param) *openapi3.Schema {
	var s *openapi3.Schema
	switch p.Type {
	case domain.ParamInteger:
		s = openapi3.NewIntegerSchema()
	case domain.ParamBoolean:
		s = openapi3.NewBoolSchema()
	default:
		s = openapi3.NewStringSchema()
	}
	s.Description = p.Description
	if len(p.Enum) > 0 {
		values := make([]any, len(p.Enum))
		for i, v := range p.Enum {
			values[i] = v
		}
		s.WithEnum(values...)
	}
	if p.Default != nil {
		s.WithDefault(p.Default)
	}
	return s
}

func hasRequired(tool domain.Tool) bool {
	for _, p := range tool.Params {
		if p.Required {
			return true
		}
	}
	return false
}

func errorSchema() *openapi3.Schema {
	detail := openapi3.NewObjectSchema().
		WithProperty("kind", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("offset", openapi3.NewIntegerSchema()).
		WithProperty("line", openapi3.NewIntegerSchema()).
		WithProperty("column", openapi3.NewIntegerSchema()).
		WithProperty("expected", openapi3.NewStringSchema()).
		WithProperty("found", openapi3.NewStringSchema())
	detail.Required = []string{"kind", "message"}

	s := openapi3.NewObjectSchema().WithProperty("error", detail)
	s.Required = []string{"error"}
	return s
}

func toolDescriptorSchema() *openapi3.Schema {
	param := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema().WithEnum("string", "integer", "boolean")).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("required", openapi3.NewBoolSchema()).
		WithProperty("default", &openapi3.Schema{}).
		WithProperty("enum", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))

	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("slug", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("category", openapi3.NewStringSchema()).
		WithProperty("keywords", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("params", openapi3.NewArraySchema().WithItems(param))
}

func jsonResponse(desc string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchema(schema)}
}

func errorResponse(desc string, ref *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchemaRef(ref)}
}
