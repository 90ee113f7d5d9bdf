// Package sanitize strips unsafe markup from the human readable text of a
// merged document before it is published to browsers.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-apimerge/pkg/model"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the shared policy: user generated content markup (links,
// emphasis, lists, code) is kept, scripts, styles and event handlers are
// dropped.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	})
	return policy
}

// Descriptions sanitises every description string in doc in place and
// returns how many were changed. A nil policy uses Policy().
func Descriptions(doc *model.Document, p *bluemonday.Policy) int {
	if doc == nil {
		return 0
	}
	if p == nil {
		p = Policy()
	}

	count := 0
	clean := func(text string) string {
		if !strings.ContainsAny(text, "<>") {
			return text
		}
		cleaned := p.Sanitize(text)
		if cleaned != text {
			count++
		}
		return cleaned
	}

	for i := range doc.Servers {
		doc.Servers[i].Description = clean(doc.Servers[i].Description)
	}
	for i := range doc.Tags {
		doc.Tags[i].Description = clean(doc.Tags[i].Description)
	}
	model.WalkObjects(doc, func(obj model.Object) {
		if text, ok := obj["description"].(string); ok {
			obj["description"] = clean(text)
		}
	})
	return count
}
