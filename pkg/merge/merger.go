package merge

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/goliatone/go-apimerge/pkg/model"
)

// Merger merges module contributions. A Merger holds configuration only and
// is safe for concurrent use.
type Merger struct {
	opts Options
}

// New constructs a Merger.
func New(options ...Option) *Merger {
	return &Merger{opts: NewOptions(options...)}
}

// MergeDocuments merges contributions with default options.
func MergeDocuments(contributions []Contribution) Result {
	return New().Merge(contributions)
}

// module is the per-call view of an included contribution.
type module struct {
	name        string
	contextRoot string
	doc         *model.Document
}

// state accumulates the merged document across contributions of one call.
type state struct {
	result          *model.Document
	pathOwners      map[string]string
	webhookOwners   map[string]string
	extensionOwners map[string]string
	operationIDs    map[string]bool
	tagNames        map[string]bool
	included        []module

	// componentAliases maps kind and original name to the names earlier
	// modules' definitions were renamed to.
	componentAliases map[string]map[string][]string
}

func newState() *state {
	return &state{
		result:          model.New(""),
		pathOwners:      make(map[string]string),
		webhookOwners:   make(map[string]string),
		extensionOwners: make(map[string]string),
		operationIDs:    make(map[string]bool),
		tagNames:        make(map[string]bool),

		componentAliases: make(map[string]map[string][]string),
	}
}

// Merge combines the contributions into one document. Collisions never fail
// the merge: they are resolved by renaming or turned into problems that
// exclude the offending module.
func (m *Merger) Merge(contributions []Contribution) Result {
	st := newState()
	reports := make([]ModuleReport, 0, len(contributions))
	for i, contribution := range contributions {
		reports = append(reports, m.process(st, contribution, i))
	}

	m.finalize(st)

	result := Result{
		Document:        st.result,
		ApplicationPath: applicationPath(st.included),
		Reports:         reports,
	}
	for _, report := range reports {
		result.Problems = append(result.Problems, report.Problems...)
	}
	m.opts.Logger.Debug("merged module documents",
		zap.Int("modules", len(contributions)),
		zap.Int("included", len(st.included)),
		zap.Int("paths", len(st.result.Paths)),
		zap.String("applicationPath", result.ApplicationPath),
	)
	return result
}

func (m *Merger) process(st *state, contribution Contribution, index int) ModuleReport {
	name := contribution.Name
	if name == "" {
		name = fmt.Sprintf("module-%d", index+1)
	}
	root := NormalizeContextRoot(contribution.ContextRoot)
	report := ModuleReport{
		Name:        name,
		ContextRoot: root,
		Problems:    append([]string(nil), contribution.Problems...),
	}

	if contribution.Document == nil {
		return m.exclude(report, []string{fmt.Sprintf("The module %s did not provide an OpenAPI document", name)})
	}

	doc := model.Copy(contribution.Document)
	pathRenames, problems := reconcileContextRoot(name, doc, root)
	if len(problems) > 0 {
		return m.exclude(report, problems)
	}
	if len(pathRenames) > 0 {
		model.RewritePathRefs(doc, pathRenames)
	}

	problems = append(problems, st.pathClashes(name, doc)...)
	problems = append(problems, st.extensionClashes(name, doc)...)
	if len(problems) > 0 {
		return m.exclude(report, problems)
	}

	shared, componentRenames := st.renameComponents(doc)
	renames := append(componentRenames, st.renameOperationIDs(doc, shared)...)
	sharedTags, tagRenames := st.renameTags(doc)
	renames = append(renames, tagRenames...)

	st.commit(name, root, doc, shared, sharedTags)

	for _, rename := range renames {
		m.opts.Logger.Debug("renamed clashing definition",
			zap.String("module", name),
			zap.String("category", rename.Category),
			zap.String("from", rename.From),
			zap.String("to", rename.To),
		)
	}
	report.Outcome = OutcomeIncluded
	report.Renames = renames
	return report
}

func (m *Merger) exclude(report ModuleReport, problems []string) ModuleReport {
	m.opts.Logger.Warn("excluding module from merged document",
		zap.String("module", report.Name),
		zap.Strings("problems", problems),
	)
	report.Outcome = OutcomeExcluded
	report.Problems = append(report.Problems, problems...)
	return report
}

// pathClashes reports every path or webhook key already owned by another
// module.
func (st *state) pathClashes(name string, doc *model.Document) []string {
	var problems []string
	for _, path := range doc.PathKeys() {
		if owner, ok := st.pathOwners[path]; ok {
			problems = append(problems, fmt.Sprintf(
				"The path %s from module %s clashes with the same path from module %s", path, name, owner))
		}
	}
	for _, hook := range sortedNames(doc.Webhooks) {
		if owner, ok := st.webhookOwners[hook]; ok {
			problems = append(problems, fmt.Sprintf(
				"The webhook %s from module %s clashes with the same webhook from module %s", hook, name, owner))
		}
	}
	return problems
}

// extensionClashes reports extensions whose key is already present in the
// result with a different value. Top-level, paths and components extensions
// are checked.
func (st *state) extensionClashes(name string, doc *model.Document) []string {
	var problems []string
	check := func(scope string, existing, incoming model.Object) {
		for _, key := range sortedNames(incoming) {
			current, ok := existing[key]
			if !ok || model.EqualValue(current, incoming[key]) {
				continue
			}
			label := key
			if scope != "" {
				label = scope + "." + key
			}
			problems = append(problems, fmt.Sprintf(
				"The extension %s from module %s has a different value than the extension from module %s",
				label, name, st.extensionOwners[label]))
		}
	}
	check("", st.result.Extensions, doc.Extensions)
	check("paths", st.result.PathsExtensions, doc.PathsExtensions)
	check("components", st.result.Components.Extensions, doc.Components.Extensions)
	return problems
}

// commit adds the processed module document to the result. Shared components
// and tags are already present and are skipped.
func (st *state) commit(name, root string, doc *model.Document, shared map[string]map[string]bool, sharedTags map[string]bool) {
	result := st.result
	for path, item := range doc.Paths {
		result.Paths[path] = item
		st.pathOwners[path] = name
	}
	for hook, item := range doc.Webhooks {
		if result.Webhooks == nil {
			result.Webhooks = make(map[string]model.Object)
		}
		result.Webhooks[hook] = item
		st.webhookOwners[hook] = name
	}
	for _, kind := range sortedNames(doc.Components.Entries) {
		for component, def := range doc.Components.Entries[kind] {
			if shared[kind][component] {
				continue
			}
			result.SetComponent(kind, component, def)
		}
	}
	for _, tag := range doc.Tags {
		if sharedTags[tag.Name] {
			continue
		}
		result.Tags = append(result.Tags, tag)
		st.tagNames[tag.Name] = true
	}
	model.ForEachOperation(doc, func(op model.Object) {
		if id, ok := op["operationId"].(string); ok && id != "" {
			st.operationIDs[id] = true
		}
		for _, tag := range operationTags(op) {
			st.tagNames[tag] = true
		}
	})

	addExtensions := func(scope string, target *model.Object, incoming model.Object) {
		for key, value := range incoming {
			label := key
			if scope != "" {
				label = scope + "." + key
			}
			if _, ok := (*target)[key]; ok {
				continue
			}
			if *target == nil {
				*target = make(model.Object)
			}
			(*target)[key] = value
			st.extensionOwners[label] = name
		}
	}
	addExtensions("", &result.Extensions, doc.Extensions)
	addExtensions("paths", &result.PathsExtensions, doc.PathsExtensions)
	addExtensions("components", &result.Components.Extensions, doc.Components.Extensions)

	st.included = append(st.included, module{name: name, contextRoot: root, doc: doc})
}

// finalize decides the document-wide fields from the included modules only.
func (m *Merger) finalize(st *state) {
	result := st.result
	result.OpenAPI = m.version(st.included)

	result.Info = sharedObject(st.included, func(doc *model.Document) model.Object { return doc.Info })
	if result.Info == nil && m.opts.DefaultInfo != nil {
		result.Info, _ = model.CopyValue(m.opts.DefaultInfo).(map[string]any)
	}
	result.ExternalDocs = sharedObject(st.included, func(doc *model.Document) model.Object { return doc.ExternalDocs })

	reconcileServers(st)
	reconcileSecurity(st)
}

func (m *Merger) version(included []module) string {
	best := ""
	for _, mod := range included {
		candidate := mod.doc.OpenAPI
		if best == "" {
			best = candidate
			continue
		}
		if semver.Compare("v"+candidate, "v"+best) > 0 {
			best = candidate
		}
	}
	if best == "" {
		return m.opts.DefaultVersion
	}
	return best
}

// sharedObject returns a copy of the object when every included module
// declares an identical one, nil otherwise.
func sharedObject(included []module, get func(*model.Document) model.Object) model.Object {
	if len(included) == 0 {
		return nil
	}
	first := get(included[0].doc)
	if first == nil {
		return nil
	}
	for _, mod := range included[1:] {
		if !model.EqualValue(first, get(mod.doc)) {
			return nil
		}
	}
	copied, _ := model.CopyValue(first).(map[string]any)
	return copied
}

// reconcileServers keeps identical top-level servers; otherwise each module's
// servers move down onto its path items that declare none.
func reconcileServers(st *state) {
	if len(st.included) == 0 {
		return
	}
	first := st.included[0].doc.Servers
	same := true
	for _, mod := range st.included[1:] {
		if !model.EqualServers(first, mod.doc.Servers) {
			same = false
			break
		}
	}
	if same {
		st.result.Servers = model.CopyServers(first)
		return
	}
	st.result.Servers = nil
	for _, mod := range st.included {
		if len(mod.doc.Servers) == 0 {
			continue
		}
		for _, item := range moduleItems(mod.doc) {
			if _, ok := item["servers"]; ok {
				continue
			}
			item["servers"] = model.ServerList(mod.doc.Servers)
		}
	}
}

// reconcileSecurity applies the same policy as reconcileServers to top-level
// security requirements, pushing them onto operations without their own.
func reconcileSecurity(st *state) {
	if len(st.included) == 0 {
		return
	}
	first := st.included[0].doc.Security
	same := true
	for _, mod := range st.included[1:] {
		if !securityEqual(first, mod.doc.Security) {
			same = false
			break
		}
	}
	if same {
		if first != nil {
			st.result.Security = make([]model.Object, len(first))
			for i, req := range first {
				st.result.Security[i], _ = model.CopyValue(req).(map[string]any)
			}
		}
		return
	}
	st.result.Security = nil
	for _, mod := range st.included {
		if mod.doc.Security == nil {
			continue
		}
		for _, item := range moduleItems(mod.doc) {
			for _, method := range model.Methods {
				op, ok := item[method].(map[string]any)
				if !ok {
					continue
				}
				if _, ok := op["security"]; ok {
					continue
				}
				list := make([]any, 0, len(mod.doc.Security))
				for _, req := range mod.doc.Security {
					list = append(list, model.CopyValue(req))
				}
				op["security"] = list
			}
		}
	}
}

// securityEqual distinguishes an absent requirement list from an explicitly
// empty one, which disables security.
func securityEqual(a, b []model.Object) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !model.EqualValue(a[i], b[i]) {
			return false
		}
	}
	return true
}

func moduleItems(doc *model.Document) []model.Object {
	items := make([]model.Object, 0, len(doc.Paths)+len(doc.Webhooks))
	for _, path := range doc.PathKeys() {
		items = append(items, doc.Paths[path])
	}
	for _, hook := range sortedNames(doc.Webhooks) {
		items = append(items, doc.Webhooks[hook])
	}
	return items
}

func applicationPath(included []module) string {
	if len(included) == 0 {
		return ""
	}
	root := included[0].contextRoot
	for _, mod := range included[1:] {
		if mod.contextRoot != root {
			return ""
		}
	}
	return root
}

func operationTags(op model.Object) []string {
	list, _ := op["tags"].([]any)
	tags := make([]string, 0, len(list))
	for _, value := range list {
		if tag, ok := value.(string); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
