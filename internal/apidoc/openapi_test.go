package apidoc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/brewery/internal/adapter/handler"
)

func buildDocument(t *testing.T) map[string]any {
	t.Helper()

	spec, err := Build("Brewery API", "v1", handler.Routes())
	require.NoError(t, err)

	b, err := json.Marshal(spec)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	return doc
}

func lookup(t *testing.T, v any, path ...string) any {
	t.Helper()

	for _, key := range path {
		m, ok := v.(map[string]any)
		require.Truef(t, ok, "expected object at %q", key)
		v, ok = m[key]
		require.Truef(t, ok, "missing key %q", key)
	}
	return v
}

func TestBuild_Paths(t *testing.T) {
	doc := buildDocument(t)

	assert.Equal(t, "Brewery API", lookup(t, doc, "info", "title"))
	assert.Equal(t, "getBeerById", lookup(t, doc, "paths", "/api/v1/beer/{beerId}", "get", "operationId"))
	assert.Equal(t, "updateBeerById", lookup(t, doc, "paths", "/api/v1/beer/{beerId}", "put", "operationId"))
	assert.Equal(t, "saveNewBeer", lookup(t, doc, "paths", "/api/v1/beer/", "post", "operationId"))
}

func TestBuild_Responses(t *testing.T) {
	doc := buildDocument(t)

	tests := []struct {
		path   string
		method string
		codes  []string
	}{
		{"/api/v1/beer/{beerId}", "get", []string{"200", "400", "404", "500"}},
		{"/api/v1/beer/", "post", []string{"201", "400", "413", "415", "500"}},
		{"/api/v1/beer/{beerId}", "put", []string{"204", "400", "404", "413", "415", "500"}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			responses := lookup(t, doc, "paths", tt.path, tt.method, "responses").(map[string]any)
			assert.Len(t, responses, len(tt.codes))
			for _, code := range tt.codes {
				assert.Contains(t, responses, code)
			}
		})
	}

	lookup(t, doc, "paths", "/api/v1/beer/{beerId}", "get", "responses", "404", "content", "application/problem+json", "schema")
	lookup(t, doc, "paths", "/api/v1/beer/", "post", "responses", "201", "headers", "Location")

	_, hasBody := lookup(t, doc, "paths", "/api/v1/beer/{beerId}", "put", "responses", "204").(map[string]any)["content"]
	assert.False(t, hasBody)
}

func TestBuild_PathParameter(t *testing.T) {
	doc := buildDocument(t)

	params := lookup(t, doc, "paths", "/api/v1/beer/{beerId}", "get", "parameters").([]any)
	require.Len(t, params, 1)

	param := params[0].(map[string]any)
	assert.Equal(t, "beerId", param["name"])
	assert.Equal(t, "path", param["in"])
	assert.Equal(t, true, param["required"])
	assert.Equal(t, "UUID of desired beer to get.", param["description"])
	assert.Equal(t, "uuid", lookup(t, param, "schema", "format"))
}

func TestBuild_RequestConstraints(t *testing.T) {
	doc := buildDocument(t)

	schema := lookup(t, doc, "paths", "/api/v1/beer/", "post", "requestBody", "content", "application/json", "schema")
	props := lookup(t, schema, "properties")

	required := lookup(t, schema, "required").([]any)
	assert.ElementsMatch(t, []any{"beerName", "beerStyle", "upc"}, required)

	assert.EqualValues(t, 100, lookup(t, props, "beerName", "maxLength"))
	assert.EqualValues(t, 1, lookup(t, props, "beerName", "minLength"))
	assert.Equal(t, `\S`, lookup(t, props, "beerName", "pattern"))
	assert.Equal(t, "Name of the beer. Must not be blank. Size must be at most 100.", lookup(t, props, "beerName", "description"))

	enum := lookup(t, props, "beerStyle", "enum").([]any)
	assert.Contains(t, enum, "PALE_ALE")
	assert.Len(t, enum, 10)

	assert.Contains(t, lookup(t, props, "upc", "description"), "Must be greater than 0")
	assert.Contains(t, lookup(t, props, "price", "description"), "Must be at least 0")

	for _, field := range []string{"id", "version", "createdDate", "lastModifiedDate", "quantityOnHand"} {
		assert.Contains(t, props, field)
	}
}

func TestBuild_EveryRouteDocumented(t *testing.T) {
	doc := buildDocument(t)
	paths := lookup(t, doc, "paths").(map[string]any)

	for _, route := range handler.Routes() {
		item, ok := paths[route.Path].(map[string]any)
		require.Truef(t, ok, "path %s not documented", route.Path)
		assert.Contains(t, item, map[string]string{
			http.MethodGet:  "get",
			http.MethodPost: "post",
			http.MethodPut:  "put",
		}[route.Method])
	}
}

func TestHandler(t *testing.T) {
	spec, err := Build("Brewery API", "v1", handler.Routes())
	require.NoError(t, err)

	h, err := Handler(spec)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestParseValidateTag(t *testing.T) {
	rules := parseValidateTag("omitempty,required,max=100,oneof=A B")
	assert.Equal(t, []rule{
		{tag: "required"},
		{tag: "max", param: "100"},
		{tag: "oneof", param: "A B"},
	}, rules)

	assert.Nil(t, parseValidateTag("-"))
	assert.True(t, requiresValue(rule{tag: "notblank"}))
	assert.Equal(t, []string{"Must not be blank", "Size must be at most 100"},
		describeRules(parseValidateTag("notblank,max=100"), true))
	assert.Equal(t, "Size. Must be one of [A, B].", withConstraints("Size.", describeRules([]rule{{tag: "oneof", param: "A B"}}, true)))
}
