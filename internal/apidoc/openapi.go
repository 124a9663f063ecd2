// Package apidoc generates the OpenAPI document of the HTTP API from the
// same route table the router is built from.
package apidoc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"

	"github.com/rl1809/brewery/internal/adapter/handler"
)

const (
	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
)

// Build returns an OpenAPI 3 document describing every route.
func Build(title, version string, routes []handler.Route) (*openapi3.Spec, error) {
	spec := &openapi3.Spec{
		Openapi: "3.0.3",
		Info: openapi3.Info{
			Title:   title,
			Version: version,
		},
	}

	reflector := newReflector()

	problemSchema, err := schemaOf(reflector, handler.ProblemDetail{})
	if err != nil {
		return nil, fmt.Errorf("reflect problem detail: %w", err)
	}

	for _, route := range routes {
		op, err := operation(reflector, route, problemSchema)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", route.Method, route.Path, err)
		}

		if err := spec.AddOperation(route.Method, route.Path, op); err != nil {
			return nil, fmt.Errorf("add operation %s: %w", route.OperationID, err)
		}
	}

	return spec, nil
}

// Handler serves the document as JSON. The document is encoded once.
func Handler(spec *openapi3.Spec) (http.Handler, error) {
	b, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", jsonContentType)
		if _, err := w.Write(b); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write openapi document")
		}
	}), nil
}

func operation(reflector *jsonschema.Reflector, route handler.Route, problemSchema openapi3.SchemaOrRef) (openapi3.Operation, error) {
	op := openapi3.Operation{
		ID:      ptr.Ref(route.OperationID),
		Summary: ptr.Ref(route.Summary),
		Tags:    route.Tags,
	}

	for _, p := range route.PathParams {
		op.Parameters = append(op.Parameters, pathParameter(p))
	}

	if route.Request != nil {
		schema, err := schemaOf(reflector, route.Request)
		if err != nil {
			return op, fmt.Errorf("reflect request body: %w", err)
		}

		op.RequestBody = &openapi3.RequestBodyOrRef{
			RequestBody: &openapi3.RequestBody{
				Required: ptr.Ref(true),
				Content: map[string]openapi3.MediaType{
					jsonContentType: {Schema: &schema},
				},
			},
		}
	}

	success := &openapi3.Response{Description: http.StatusText(route.Status)}
	if route.Response != nil {
		schema, err := schemaOf(reflector, route.Response)
		if err != nil {
			return op, fmt.Errorf("reflect response body: %w", err)
		}
		success.Content = map[string]openapi3.MediaType{
			jsonContentType: {Schema: &schema},
		}
	}
	if len(route.ResponseHeaders) > 0 {
		success.Headers = make(map[string]openapi3.HeaderOrRef, len(route.ResponseHeaders))
		for name, desc := range route.ResponseHeaders {
			success.Headers[name] = openapi3.HeaderOrRef{
				Header: &openapi3.Header{
					Description: ptr.Ref(desc),
					Schema:      stringSchema(""),
				},
			}
		}
	}

	responses := map[string]openapi3.ResponseOrRef{
		strconv.Itoa(route.Status): {Response: success},
	}
	for _, status := range route.Errors {
		responses[strconv.Itoa(status)] = openapi3.ResponseOrRef{
			Response: &openapi3.Response{
				Description: http.StatusText(status),
				Content: map[string]openapi3.MediaType{
					problemContentType: {Schema: &problemSchema},
				},
			},
		}
	}
	op.Responses = openapi3.Responses{MapOfResponseOrRefValues: responses}

	return op, nil
}

func pathParameter(p handler.PathParam) openapi3.ParameterOrRef {
	return openapi3.ParameterOrRef{
		Parameter: &openapi3.Parameter{
			Name:        p.Name,
			In:          openapi3.ParameterInPath,
			Description: ptr.Ref(p.Description),
			Required:    ptr.Ref(true),
			Schema:      stringSchema(p.Format),
		},
	}
}

func stringSchema(format string) *openapi3.SchemaOrRef {
	schemaType := openapi3.SchemaTypeString
	s := &openapi3.Schema{Type: &schemaType}
	if format != "" {
		s.Format = ptr.Ref(format)
	}
	return &openapi3.SchemaOrRef{Schema: s}
}

func newReflector() *jsonschema.Reflector {
	r := &jsonschema.Reflector{}
	r.AddTypeMapping(uuid.UUID{}, "")
	r.AddTypeMapping(decimal.Decimal{}, "")
	return r
}

func schemaOf(r *jsonschema.Reflector, sample any) (openapi3.SchemaOrRef, error) {
	js, err := r.Reflect(sample, jsonschema.InlineRefs, jsonschema.InterceptProp(constrainProperty))
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}

	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(js.ToSchemaOrBool())
	return schemaOrRef, nil
}

// constrainProperty copies the validate tag of a field into the schema:
// machine readable keywords plus a sentence appended to the description.
func constrainProperty(params jsonschema.InterceptPropParams) error {
	if !params.Processed || params.PropertySchema == nil {
		return nil
	}

	rules := parseValidateTag(params.Field.Tag.Get("validate"))
	if len(rules) == 0 {
		return nil
	}

	isString := params.PropertySchema.HasType(jsonschema.String)
	for _, rule := range rules {
		applyRule(params.PropertySchema, rule, isString)
		if requiresValue(rule) && params.ParentSchema != nil && !slices.Contains(params.ParentSchema.Required, params.Name) {
			params.ParentSchema.Required = append(params.ParentSchema.Required, params.Name)
		}
	}

	desc := ""
	if params.PropertySchema.Description != nil {
		desc = *params.PropertySchema.Description
	}
	params.PropertySchema.WithDescription(withConstraints(desc, describeRules(rules, isString)))

	return nil
}
