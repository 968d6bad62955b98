package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/goxref/pkg/catalog"
	"github.com/yaklabco/goxref/pkg/config"
	"github.com/yaklabco/goxref/pkg/render"
	"github.com/yaklabco/goxref/pkg/route"
	"github.com/yaklabco/goxref/pkg/xref"
)

var (
	// ErrUnknownProject is returned when the configured project is not in the catalog.
	ErrUnknownProject = errors.New("unknown project")

	// ErrUnknownObject is returned when the configured object has no attachments entry.
	ErrUnknownObject = errors.New("unknown object")

	// ErrCatalog is returned when the catalog cannot be loaded.
	ErrCatalog = errors.New("catalog error")
)

// Setup holds what FromConfig assembled.
type Setup struct {
	Pipeline *Pipeline
	Catalog  *catalog.Catalog
	Router   *route.Router
	Options  Options
}

// FromConfig loads the catalog named by cfg and assembles a pipeline around it.
// now is the clock used for overdue issues; nil means time.Now.
func FromConfig(cfg *config.Config, now func() time.Time) (*Setup, error) {
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	baseURL := ""
	if cfg.AbsoluteURLs {
		baseURL = cfg.BaseURL
	}
	router, err := route.New(baseURL)
	if err != nil {
		return nil, fmt.Errorf("configure urls: %w", err)
	}

	rc, err := NewContext(cat, cfg)
	if err != nil {
		return nil, err
	}

	resolver := xref.New(cat, router, xref.WithClock(now))
	return &Setup{
		Pipeline: New(resolver, render.New(string(cfg.Flavor)), rc),
		Catalog:  cat,
		Router:   router,
		Options:  OptionsFromConfig(cfg),
	}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Parse(nil, "")
		if err != nil {
			return nil, fmt.Errorf("empty catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	return cat, nil
}

// NewContext builds the rendering context described by cfg.
func NewContext(cat *catalog.Catalog, cfg *config.Config) (*xref.Context, error) {
	mode, err := xref.ParseWikiLinkMode(cfg.WikiLinks)
	if err != nil {
		return nil, err
	}

	rc := &xref.Context{
		OnlyPath:  !cfg.AbsoluteURLs,
		WikiLinks: mode,
	}

	if cfg.Project != "" {
		project, ok := cat.Project(cfg.Project)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProject, cfg.Project)
		}
		rc.Project = project
	}

	if cfg.Object != "" {
		list := cat.Attachments(cfg.Object)
		if list == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownObject, cfg.Object)
		}
		rc.Object = list
	}

	return rc, nil
}
