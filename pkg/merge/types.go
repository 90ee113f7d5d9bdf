package merge

import "github.com/goliatone/go-apimerge/pkg/model"

// Contribution pairs one module's document with the context root the module
// is deployed under.
type Contribution struct {
	Name        string
	ContextRoot string
	Document    *model.Document

	// Problems recorded before merging (for example by the registry) are
	// carried into the module's report.
	Problems []string
}

// Outcome is the merge verdict for one module.
type Outcome string

const (
	OutcomeIncluded Outcome = "included"
	OutcomeExcluded Outcome = "excluded"
)

// Rename records one identifier that was changed to keep the result unique.
type Rename struct {
	// Category is a component kind, "operationId" or "tag".
	Category string
	From     string
	To       string
}

// Categories used in Rename besides the component kinds.
const (
	CategoryOperationID = "operationId"
	CategoryTag         = "tag"
)

// ModuleReport describes what happened to one contribution.
type ModuleReport struct {
	Name        string
	ContextRoot string
	Outcome     Outcome
	Problems    []string
	Renames     []Rename
}

// Included reports whether the module made it into the merged document.
func (r ModuleReport) Included() bool {
	return r.Outcome == OutcomeIncluded
}

// Result is the outcome of merging a set of contributions.
type Result struct {
	Document *model.Document

	// ApplicationPath is the context root shared by every included module,
	// or "" when they differ or none is set.
	ApplicationPath string

	// Problems concatenates the problems of every module in input order.
	Problems []string

	Reports []ModuleReport
}

// Report returns the report for the named module.
func (r Result) Report(name string) (ModuleReport, bool) {
	for _, report := range r.Reports {
		if report.Name == name {
			return report, true
		}
	}
	return ModuleReport{}, false
}

// IncludedModules lists the modules present in the merged document.
func (r Result) IncludedModules() []string {
	var names []string
	for _, report := range r.Reports {
		if report.Included() {
			names = append(names, report.Name)
		}
	}
	return names
}
