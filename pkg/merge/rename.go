package merge

import (
	"fmt"

	"github.com/goliatone/go-apimerge/pkg/model"
)

// renameComponents compares the module's components with those already in
// the result. Identical definitions are shared; different ones are renamed
// and every reference in the module is rewritten. A definition equal to one
// an earlier module was renamed to reuses that name. Comparison applies the
// renames found so far, and repeats until no new rename appears, because
// renaming one component changes the refs inside the ones that use it.
func (st *state) renameComponents(doc *model.Document) (map[string]map[string]bool, []Rename) {
	kinds := componentKinds(doc)
	renamed := make(map[string]map[string]string)
	refs := make(map[string]string)

	for changed := true; changed; {
		changed = false
		for _, kind := range kinds {
			for _, name := range doc.ComponentNames(kind) {
				if _, done := renamed[kind][name]; done {
					continue
				}
				existing, ok := st.result.Component(kind, name)
				if !ok {
					continue
				}
				incoming, _ := doc.Component(kind, name)
				candidate := model.CopyValue(incoming)
				model.RewriteValueRefs(candidate, refs)
				if model.EqualValue(existing, candidate) {
					continue
				}

				if renamed[kind] == nil {
					renamed[kind] = make(map[string]string)
				}
				next, ok := st.componentAlias(doc, kind, name, candidate)
				if !ok {
					next = uniqueName(name, func(candidate string) bool {
						if _, ok := st.result.Component(kind, candidate); ok {
							return true
						}
						if _, ok := doc.Component(kind, candidate); ok {
							return true
						}
						for _, used := range renamed[kind] {
							if used == candidate {
								return true
							}
						}
						return false
					})
				}
				renamed[kind][name] = next
				refs[model.ComponentRef(kind, name)] = model.ComponentRef(kind, next)
				changed = true
			}
		}
	}

	var renames []Rename
	for _, kind := range kinds {
		mapping := renamed[kind]
		for _, name := range sortedNames(mapping) {
			entries := doc.Components.Entries[kind]
			entries[mapping[name]] = entries[name]
			delete(entries, name)
			renames = append(renames, Rename{Category: kind, From: name, To: mapping[name]})
			st.recordAlias(kind, name, mapping[name])
		}
	}
	model.RewriteRefs(doc, refs)
	model.RewriteSecurityRequirements(doc, renamed[model.KindSecuritySchemes])

	shared := make(map[string]map[string]bool)
	for _, kind := range kinds {
		for _, name := range doc.ComponentNames(kind) {
			if _, ok := st.result.Component(kind, name); !ok {
				continue
			}
			if shared[kind] == nil {
				shared[kind] = make(map[string]bool)
			}
			shared[kind][name] = true
		}
	}
	return shared, renames
}

// componentAlias returns the name an earlier module's kind/name was renamed
// to when that definition equals def. Names the module declares itself are
// never reused.
func (st *state) componentAlias(doc *model.Document, kind, name string, def any) (string, bool) {
	for _, alias := range st.componentAliases[kind][name] {
		if _, own := doc.Component(kind, alias); own {
			continue
		}
		if existing, ok := st.result.Component(kind, alias); ok && model.EqualValue(existing, def) {
			return alias, true
		}
	}
	return "", false
}

func (st *state) recordAlias(kind, name, alias string) {
	if st.componentAliases[kind] == nil {
		st.componentAliases[kind] = make(map[string][]string)
	}
	for _, known := range st.componentAliases[kind][name] {
		if known == alias {
			return
		}
	}
	st.componentAliases[kind][name] = append(st.componentAliases[kind][name], alias)
}

// componentKinds lists the known kinds in processing order followed by any
// other kind the document declares, sorted.
func componentKinds(doc *model.Document) []string {
	kinds := append([]string(nil), model.ComponentKinds...)
	known := make(map[string]bool, len(kinds))
	for _, kind := range kinds {
		known[kind] = true
	}
	for _, kind := range sortedNames(doc.Components.Entries) {
		if !known[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// renameOperationIDs gives every operation that will be added to the result
// an id not used there yet. Operations inside shared components are skipped
// since those components are not added again.
func (st *state) renameOperationIDs(doc *model.Document, shared map[string]map[string]bool) []Rename {
	var ops []model.Object
	visit := func(op model.Object) {
		ops = append(ops, op)
	}
	for _, path := range doc.PathKeys() {
		model.OperationsInPathItem(doc.Paths[path], visit)
	}
	for _, hook := range sortedNames(doc.Webhooks) {
		model.OperationsInPathItem(doc.Webhooks[hook], visit)
	}
	for _, kind := range []string{model.KindPathItems, model.KindCallbacks} {
		for _, name := range doc.ComponentNames(kind) {
			if shared[kind][name] {
				continue
			}
			def, _ := doc.Component(kind, name)
			model.OperationsInComponent(kind, def, visit)
		}
	}

	moduleIDs := make(map[string]bool)
	for _, op := range ops {
		if id := operationID(op); id != "" {
			moduleIDs[id] = true
		}
	}
	assigned := make(map[string]bool)
	taken := func(candidate string) bool {
		return st.operationIDs[candidate] || moduleIDs[candidate] || assigned[candidate]
	}

	var renames []Rename
	cross := make(map[string]string)
	for _, id := range sortedNames(moduleIDs) {
		if !st.operationIDs[id] {
			continue
		}
		next := uniqueName(id, taken)
		assigned[next] = true
		cross[id] = next
		renames = append(renames, Rename{Category: CategoryOperationID, From: id, To: next})
	}
	model.RewriteOperationIDs(doc, cross)

	// Duplicates inside the module itself keep the first occurrence.
	seen := make(map[string]bool)
	for _, op := range ops {
		id := operationID(op)
		if id == "" {
			continue
		}
		if !seen[id] {
			seen[id] = true
			continue
		}
		next := uniqueName(id, taken)
		assigned[next] = true
		seen[next] = true
		op["operationId"] = next
		renames = append(renames, Rename{Category: CategoryOperationID, From: id, To: next})
	}
	return renames
}

// renameTags splits top-level tag definitions that reuse a name from the
// result with different metadata. Tags referenced by operations without a
// definition carry no metadata and are never split.
func (st *state) renameTags(doc *model.Document) (map[string]bool, []Rename) {
	moduleTags := make(map[string]bool)
	for _, tag := range doc.Tags {
		moduleTags[tag.Name] = true
	}
	model.ForEachOperation(doc, func(op model.Object) {
		for _, tag := range operationTags(op) {
			moduleTags[tag] = true
		}
	})

	shared := make(map[string]bool)
	mapping := make(map[string]string)
	assigned := make(map[string]bool)
	var renames []Rename
	for i, tag := range doc.Tags {
		existing, ok := st.result.Tag(tag.Name)
		if !ok {
			continue
		}
		if model.EqualTag(existing, tag) {
			shared[tag.Name] = true
			continue
		}
		next := uniqueName(tag.Name, func(candidate string) bool {
			return st.tagNames[candidate] || moduleTags[candidate] || assigned[candidate]
		})
		assigned[next] = true
		mapping[tag.Name] = next
		doc.Tags[i].Name = next
		renames = append(renames, Rename{Category: CategoryTag, From: tag.Name, To: next})
	}
	model.RewriteOperationTags(doc, mapping)
	return shared, renames
}

func operationID(op model.Object) string {
	id, _ := op["operationId"].(string)
	return id
}

// uniqueName returns base_1, base_2, ... choosing the first candidate not
// taken.
func uniqueName(base string, taken func(string) bool) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
