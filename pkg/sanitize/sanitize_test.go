package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-apimerge/pkg/model"
)

const unsafeDoc = `
openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
  description: <script>alert(1)</script>Pet <b>store</b>
servers:
  - url: http://localhost
    description: <script>steal()</script>Local
tags:
  - name: pets
    description: Pet & owner operations
paths:
  /pets:
    get:
      description: Lists <a href="https://example.com" onclick="steal()">pets</a>
      responses:
        "200":
          description: ok
components:
  schemas:
    Pet:
      type: object
      properties:
        description:
          type: string
          description: <iframe src="https://evil"></iframe>Free text
`

func TestDescriptions(t *testing.T) {
	doc, err := model.Decode([]byte(unsafeDoc))
	require.NoError(t, err)

	changed := Descriptions(doc, nil)
	assert.Equal(t, 4, changed)

	assert.Equal(t, "Pet <b>store</b>", doc.Info["description"])
	assert.Equal(t, "Local", doc.Servers[0].Description)
	assert.Equal(t, "Pet & owner operations", doc.Tags[0].Description, "text without markup is left alone")

	op := doc.Paths["/pets"]["get"].(map[string]any)
	assert.NotContains(t, op["description"], "onclick")
	assert.Contains(t, op["description"], `href="https://example.com"`)

	pet, _ := doc.Component(model.KindSchemas, "Pet")
	prop := pet.(map[string]any)["properties"].(map[string]any)["description"].(map[string]any)
	assert.Equal(t, "Free text", prop["description"])
}

func TestDescriptionsNilDocument(t *testing.T) {
	assert.Zero(t, Descriptions(nil, nil))
}
