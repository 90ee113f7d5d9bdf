package merge

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-apimerge/pkg/model"
)

// NormalizeContextRoot trims whitespace, ensures a leading slash and drops
// trailing slashes. The server root ("/" or "") normalises to "".
func NormalizeContextRoot(root string) string {
	root = strings.TrimSpace(root)
	root = strings.TrimRight(root, "/")
	if root == "" {
		return ""
	}
	if !strings.HasPrefix(root, "/") {
		root = "/" + root
	}
	return root
}

// reconcileContextRoot moves the context root out of the servers and into the
// path keys when the document either declares no servers or every server URL
// ends with the root. It returns the path renames it performed so pointers
// into the paths object can be updated, and a problem for every pair of path
// keys that end up on the same prefixed key. The document is left untouched
// when there are problems.
func reconcileContextRoot(name string, doc *model.Document, root string) (map[string]string, []string) {
	if root == "" || len(doc.Paths) == 0 && len(doc.Servers) == 0 {
		return nil, nil
	}
	for _, server := range doc.Servers {
		if !serverEndsWith(server.URL, root) {
			return nil, nil
		}
	}

	renames := make(map[string]string, len(doc.Paths))
	paths := make(map[string]model.Object, len(doc.Paths))
	sources := make(map[string]string, len(doc.Paths))
	var problems []string
	for _, path := range doc.PathKeys() {
		prefixed := prefixPath(root, path)
		if first, ok := sources[prefixed]; ok {
			problems = append(problems, fmt.Sprintf(
				"The paths %s and %s from module %s both become %s under the context root %s",
				first, path, name, prefixed, root))
			continue
		}
		sources[prefixed] = path
		paths[prefixed] = doc.Paths[path]
		if prefixed != path {
			renames[path] = prefixed
		}
	}
	if len(problems) > 0 {
		return nil, problems
	}

	for i := range doc.Servers {
		doc.Servers[i].URL = stripRoot(doc.Servers[i].URL, root)
	}
	doc.Paths = paths
	return renames, nil
}

func serverEndsWith(url, root string) bool {
	return strings.HasSuffix(strings.TrimRight(url, "/"), root)
}

func stripRoot(url, root string) string {
	stripped := strings.TrimSuffix(strings.TrimRight(url, "/"), root)
	if stripped == "" {
		return "/"
	}
	return stripped
}

// prefixPath joins root and path. The path "/" maps to the bare root.
func prefixPath(root, path string) string {
	if path == "" || path == "/" {
		return root
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return root + path
}
