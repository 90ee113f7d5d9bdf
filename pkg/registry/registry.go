package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-apimerge/pkg/merge"
	"github.com/goliatone/go-apimerge/pkg/model"
	pkgopenapi "github.com/goliatone/go-apimerge/pkg/openapi"
)

var (
	ErrNameRequired     = errors.New("registry: module name is required")
	ErrSourceRequired   = errors.New("registry: module source is required")
	ErrDocumentRequired = errors.New("registry: module document is required")
)

// Deployment describes a module to load into the registry.
type Deployment struct {
	Name        string
	ContextRoot string
	Source      pkgopenapi.Source
}

// Snapshot is the merged state published after a lifecycle event. The
// document it carries is never mutated once published and must be treated as
// read-only by callers.
type Snapshot struct {
	// Generation increases with every lifecycle event.
	Generation uint64
	Result     merge.Result
}

// Document returns the merged document, or nil before anything was merged.
func (s Snapshot) Document() *model.Document {
	return s.Result.Document
}

// Ready reports whether a merged document is available.
func (s Snapshot) Ready() bool {
	return s.Result.Document != nil
}

type entry struct {
	name        string
	contextRoot string
	doc         *model.Document
	problems    []string
}

// Registry holds the modules of one application.
type Registry struct {
	loader pkgopenapi.Loader
	parser pkgopenapi.Parser
	opts   Options

	mu       sync.RWMutex
	entries  []entry
	snapshot Snapshot
}

// New constructs a Registry that loads module documents with loader and
// parser.
func New(loader pkgopenapi.Loader, parser pkgopenapi.Parser, options ...Option) *Registry {
	return &Registry{
		loader: loader,
		parser: parser,
		opts:   NewOptions(options...),
	}
}

// Register adds an already parsed module document, replacing a module with
// the same name in place, and remerges.
func (r *Registry) Register(name, contextRoot string, doc *model.Document) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if doc == nil {
		return ErrDocumentRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(entry{name: name, contextRoot: contextRoot, doc: model.Copy(doc)})
	r.remergeLocked()
	return nil
}

// Deploy loads and parses the module's document, then registers it. A load
// failure is returned and also kept as a problem of that module so the
// merged result reports it.
func (r *Registry) Deploy(ctx context.Context, deployment Deployment) error {
	if err := validateDeployment(deployment); err != nil {
		return err
	}

	doc, err := r.load(ctx, deployment)
	if err != nil && ctx.Err() != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(r.entryFor(deployment, doc, err))
	r.remergeLocked()
	return err
}

// DeployAll loads every deployment concurrently and registers them in input
// order with a single remerge. Load failures are returned as problems; only
// invalid deployments and context cancellation are errors.
func (r *Registry) DeployAll(ctx context.Context, deployments []Deployment) ([]string, error) {
	for _, deployment := range deployments {
		if err := validateDeployment(deployment); err != nil {
			return nil, err
		}
	}

	docs := make([]*model.Document, len(deployments))
	errs := make([]error, len(deployments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, deployment := range deployments {
		i, deployment := i, deployment
		g.Go(func() error {
			doc, err := r.load(gctx, deployment)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var problems []string
	for i, deployment := range deployments {
		e := r.entryFor(deployment, docs[i], errs[i])
		problems = append(problems, e.problems...)
		r.upsertLocked(e)
	}
	r.remergeLocked()
	return problems, nil
}

// Undeploy removes the named module and remerges. It reports whether the
// module was present.
func (r *Registry) Undeploy(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.name != name {
			continue
		}
		r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
		r.opts.Logger.Info("undeployed module", zap.String("module", name))
		r.remergeLocked()
		return true
	}
	return false
}

// Current returns the latest snapshot.
func (r *Registry) Current() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Document returns the current merged document. It lets the registry serve
// as an endpoint provider.
func (r *Registry) Document() *model.Document {
	return r.Current().Document()
}

// Modules lists deployed module names in deployment order.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

func (r *Registry) load(ctx context.Context, deployment Deployment) (*model.Document, error) {
	raw, err := r.loader.Load(ctx, deployment.Source)
	if err != nil {
		return nil, fmt.Errorf("registry: load module %s: %w", deployment.Name, err)
	}
	doc, err := r.parser.Parse(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("registry: parse module %s: %w", deployment.Name, err)
	}
	return doc, nil
}

func (r *Registry) entryFor(deployment Deployment, doc *model.Document, err error) entry {
	e := entry{name: deployment.Name, contextRoot: deployment.ContextRoot, doc: doc}
	if err != nil {
		r.opts.Logger.Warn("module failed to load",
			zap.String("module", deployment.Name),
			zap.String("source", deployment.Source.Location()),
			zap.Error(err),
		)
		e.problems = []string{fmt.Sprintf("The module %s could not be loaded: %v", deployment.Name, err)}
	}
	return e
}

func (r *Registry) upsertLocked(e entry) {
	for i := range r.entries {
		if r.entries[i].name == e.name {
			r.entries[i] = e
			return
		}
	}
	r.entries = append(r.entries, e)
}

func (r *Registry) remergeLocked() {
	generation := r.snapshot.Generation + 1
	if len(r.entries) == 0 {
		r.snapshot = Snapshot{Generation: generation}
		return
	}

	contributions := make([]merge.Contribution, 0, len(r.entries))
	for _, e := range r.entries {
		contributions = append(contributions, merge.Contribution{
			Name:        e.name,
			ContextRoot: e.contextRoot,
			Document:    e.doc,
			Problems:    e.problems,
		})
	}
	result := r.opts.Merger.Merge(contributions)
	if result.Document != nil {
		for _, transform := range r.opts.Transforms {
			transform(result.Document)
		}
	}
	r.snapshot = Snapshot{Generation: generation, Result: result}

	r.opts.Logger.Info("merged application document",
		zap.Uint64("generation", generation),
		zap.Int("modules", len(contributions)),
		zap.Int("problems", len(result.Problems)),
	)
}

func validateDeployment(deployment Deployment) error {
	if strings.TrimSpace(deployment.Name) == "" {
		return ErrNameRequired
	}
	if deployment.Source == nil {
		return fmt.Errorf("%w: module %s", ErrSourceRequired, deployment.Name)
	}
	return nil
}
