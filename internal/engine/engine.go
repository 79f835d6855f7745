package engine

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentos-dev/agentos/internal/domain/entities"
	"github.com/agentos-dev/agentos/internal/domain/services"
)

// Engine orchestrates a compile run: resolve the inheritance chain and
// merge the tree once, then expand every entrypoint document, possibly
// in parallel. Expansion is read-only over the shared tree and config,
// so the worker pool needs no locks.
type Engine struct {
	resolver *services.ChainResolver
	merger   *services.TreeMerger
	filter   *services.DocumentFilter
	logger   *slog.Logger
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers bounds the expansion worker pool. Values below 1 keep the
// CPU-count default.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithDocumentFilter restricts which entrypoints compile.
func WithDocumentFilter(filter *services.DocumentFilter) Option {
	return func(e *Engine) {
		e.filter = filter
	}
}

// New creates an engine with default resolver, merger and worker count.
func New(opts ...Option) *Engine {
	e := &Engine{
		resolver: services.NewChainResolver(),
		merger:   services.NewTreeMerger(),
		logger:   slog.Default(),
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile runs the full pipeline for one leaf profile. A ConfigError
// (bad chain, bad exclusion) aborts the run with no partial output; a
// per-document ExpansionError is recorded in the Result and the batch
// continues. Identical (leafID, config, repo) inputs always produce
// byte-identical documents; only RunID and Duration vary.
func (e *Engine) Compile(ctx context.Context, leafID string, config entities.Config, repo *entities.ProfileRepository) (*Result, error) {
	start := time.Now()

	chain, err := e.resolver.Resolve(leafID, repo)
	if err != nil {
		return nil, err
	}
	tree := e.merger.Merge(chain)

	entrypoints, err := e.entrypoints(tree, config)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("compiling profile",
		"profile", leafID,
		"chain", len(chain.Profiles),
		"tree_files", tree.Len(),
		"entrypoints", len(entrypoints),
	)

	type slot struct {
		doc    *ExpandedDocument
		expErr *entities.ExpansionError
	}
	slots := make([]slot, len(entrypoints))

	expander := NewExpander(tree, config)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.workers)

	for i, entrypoint := range entrypoints {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			expanded, expandErr := expander.Expand(entrypoint)
			if expandErr != nil {
				var expErr *entities.ExpansionError
				if errors.As(expandErr, &expErr) {
					slots[i] = slot{expErr: expErr}
					return nil
				}
				return expandErr
			}
			slots[i] = slot{doc: expanded}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:      uuid.NewString(),
		ProfileID:  leafID,
		LazyCopies: make(map[string][]byte),
	}
	for _, s := range slots {
		if s.expErr != nil {
			result.Errors = append(result.Errors, s.expErr)
			continue
		}
		result.Documents = append(result.Documents, s.doc.Document)
		// Lazy copies are verbatim tree content, so a path marked by two
		// documents always carries identical bytes.
		maps.Copy(result.LazyCopies, s.doc.LazyCopies)
	}
	result.Duration = time.Since(start)

	e.logger.Info("compile finished",
		"profile", leafID,
		"succeeded", result.Succeeded(),
		"failed", result.Failed(),
		"duration", result.Duration,
	)
	return result, nil
}

// entrypoints enumerates the documents to expand: everything under
// agents/ and commands/, plus workflows/ unless lazy loading is on (lazy
// workflows only enter the output as pointers and verbatim copies).
// Enumeration order comes from the sorted tree, so batch composition is
// deterministic.
func (e *Engine) entrypoints(tree *entities.MergedTree, config entities.Config) ([]string, error) {
	var selected []string
	for _, relPath := range tree.Paths() {
		namespace, _, _ := strings.Cut(relPath, "/")
		switch namespace {
		case "agents", "commands":
		case "workflows":
			if config.LazyWorkflows() {
				continue
			}
		default:
			continue
		}

		match, err := e.filter.Matches(relPath)
		if err != nil {
			return nil, err
		}
		if match {
			selected = append(selected, relPath)
		}
	}
	return selected, nil
}
