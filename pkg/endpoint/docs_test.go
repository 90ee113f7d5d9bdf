package endpoint

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-apimerge/pkg/model"
)

func TestDocsHandler_RendersPage(t *testing.T) {
	h := DocsHandler(Static(mergedDocument(t)))

	rec := serve(t, h, http.MethodGet, "/docs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Application (1.0)</title>")
	assert.Contains(t, body, `spec-url="/openapi?format=json"`)
	assert.Contains(t, body, DefaultBundleURL)
	assert.NotContains(t, body, "hide-download-button")
}

func TestDocsHandler_EscapesTitle(t *testing.T) {
	doc := model.New("3.0.3")
	doc.Info = model.Object{"title": "<script>alert(1)</script>", "version": "1"}

	rec := serve(t, DocsHandler(Static(doc), WithHideDownload(true)), http.MethodGet, "/docs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "hide-download-button")
}

func TestDocsHandler_Unavailable(t *testing.T) {
	rec := serve(t, DocsHandler(Static(nil)), http.MethodGet, "/docs", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(t, DocsHandler(Static(mergedDocument(t))), http.MethodPost, "/docs", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRegisterRoutes_MountsDocs(t *testing.T) {
	mux := http.NewServeMux()
	_, err := RegisterRoutes(mux, "/app", Static(mergedDocument(t)), WithDocsPath("/docs"))
	require.NoError(t, err)

	rec := serve(t, mux, http.MethodGet, "/app/docs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `spec-url="/app/openapi?format=json"`)
}
