package endpoint

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-apimerge/pkg/model"
)

const merged = `
openapi: 3.0.3
info:
  title: Application
  version: "1.0"
paths:
  /orders/items:
    get:
      operationId: listOrders
      responses:
        "200":
          description: ok
`

func mergedDocument(t *testing.T) *model.Document {
	t.Helper()
	doc, err := model.Decode([]byte(merged))
	require.NoError(t, err)
	return doc
}

func serve(t *testing.T, h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for key, value := range header {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_DefaultsToYAML(t *testing.T) {
	h := Handler(Static(mergedDocument(t)))

	rec := serve(t, h, http.MethodGet, "/openapi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/yaml")

	var payload map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "3.0.3", payload["openapi"])
}

func TestHandler_FormatNegotiation(t *testing.T) {
	h := Handler(Static(mergedDocument(t)))

	cases := []struct {
		name   string
		target string
		accept string
		want   string
	}{
		{name: "query json", target: "/openapi?format=json", want: "application/json"},
		{name: "query wins over accept", target: "/openapi?format=yaml", accept: "application/json", want: "application/yaml"},
		{name: "accept json", target: "/openapi", accept: "application/json", want: "application/json"},
		{name: "accept yaml", target: "/openapi", accept: "application/yaml", want: "application/yaml"},
		{name: "accept anything", target: "/openapi", accept: "*/*", want: "application/yaml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, h, http.MethodGet, tc.target, map[string]string{"Accept": tc.accept})
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tc.want)
		})
	}

	rec := serve(t, h, http.MethodGet, "/openapi?format=json", nil)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload["paths"], "/orders/items")
}

func TestHandler_DefaultFormatOption(t *testing.T) {
	h := Handler(Static(mergedDocument(t)), WithDefaultFormat(model.FormatJSON))

	rec := serve(t, h, http.MethodGet, "/openapi", nil)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestHandler_RejectsUnknownFormat(t *testing.T) {
	h := Handler(Static(mergedDocument(t)))

	rec := serve(t, h, http.MethodGet, "/openapi?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := Handler(Static(mergedDocument(t)))

	rec := serve(t, h, http.MethodPost, "/openapi", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	h := Handler(Static(mergedDocument(t)))

	rec := serve(t, h, http.MethodHead, "/openapi", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHandler_UnavailableBeforeMerge(t *testing.T) {
	for name, provider := range map[string]Provider{
		"nil provider": nil,
		"nil document": Static(nil),
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, Handler(provider), http.MethodGet, "/openapi", nil)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestHandler_ServesLatestDocument(t *testing.T) {
	var current *model.Document
	h := Handler(ProviderFunc(func() *model.Document { return current }))

	assert.Equal(t, http.StatusServiceUnavailable, serve(t, h, http.MethodGet, "/openapi", nil).Code)
	current = mergedDocument(t)
	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/openapi", nil).Code)
}

func TestHandler_Guard(t *testing.T) {
	doc := mergedDocument(t)

	denied := Handler(Static(doc), WithGuard(func(*http.Request) error {
		return errors.New("nope")
	}))
	assert.Equal(t, http.StatusForbidden, serve(t, denied, http.MethodGet, "/openapi", nil).Code)

	unauthorized := Handler(Static(doc), WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))
	assert.Equal(t, http.StatusUnauthorized, serve(t, unauthorized, http.MethodGet, "/openapi", nil).Code)

	allowed := Handler(Static(doc), WithGuard(func(*http.Request) error { return nil }))
	assert.Equal(t, http.StatusOK, serve(t, allowed, http.MethodGet, "/openapi", nil).Code)
}
