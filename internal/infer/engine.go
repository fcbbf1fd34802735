package infer

import (
	"os"
	"strings"
	"time"

	"github.com/groveplan/grove/internal/object"
	"github.com/groveplan/grove/internal/paths"
)

// Config holds engine construction parameters.
type Config struct {
	// Root is the planning tree root, outer or inner; it is normalized
	// once at construction.
	Root string
	// CacheSize bounds the inference cache. Zero means DefaultCacheSize.
	CacheSize int
	// CacheTTL overrides the probe-less staleness TTL. Zero keeps the
	// default.
	CacheTTL time.Duration
}

// DefaultCacheSize bounds the inference cache unless configured.
const DefaultCacheSize = 256

// Engine is the single request/response API over pattern matching,
// caching, and filesystem validation. It owns its cache; there is no
// process-wide shared instance.
type Engine struct {
	roots     paths.Roots
	cache     *Cache
	validator *Validator
}

// NewEngine builds an engine for a planning tree. The root must be an
// existing directory.
func NewEngine(cfg Config) (*Engine, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil || !info.IsDir() {
		return nil, object.Errorf(object.ErrInvalidRoot, "planning root %q is not an existing directory", cfg.Root)
	}

	size := cfg.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}

	e := &Engine{roots: paths.ResolveRoots(cfg.Root)}
	e.validator = NewValidator(e.roots)

	opts := []CacheOption{WithProbe(e.probe)}
	if cfg.CacheTTL > 0 {
		opts = append(opts, WithTTL(cfg.CacheTTL))
	}
	cache, err := NewCache(size, opts...)
	if err != nil {
		return nil, err
	}
	e.cache = cache
	return e, nil
}

// Roots exposes the resolved planning roots for collaborators (tools,
// index, watcher) wired in the composition root.
func (e *Engine) Roots() paths.Roots { return e.roots }

// Cache exposes the engine-owned cache for invalidation hooks.
func (e *Engine) Cache() *Cache { return e.cache }

// probe stats the file backing an ID so the cache can compare
// modification times on each hit.
func (e *Engine) probe(id string, kind object.Kind) (time.Time, error) {
	path, err := paths.IDToPath(e.roots, kind, id)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// InferKind classifies an ID, optionally validating the result against
// the filesystem, and caches successes. A cached entry short-circuits
// when it is known valid, or when the caller skipped validation anyway.
func (e *Engine) InferKind(id string, validate bool) (object.Kind, error) {
	if strings.TrimSpace(id) == "" {
		return "", object.Errorf(object.ErrMissingRequired, "empty id")
	}

	if cached, ok := e.cache.Get(id); ok && (cached.Valid || !validate) {
		return cached.Kind, nil
	}

	kind, err := object.InferKind(id)
	if err != nil {
		return "", err
	}

	result := Result{ID: id, Kind: kind}
	if validate {
		vr := e.validator.ValidateObjectStructure(kind, id, "")
		if !vr.IsValid {
			return "", validationError(kind, id, vr)
		}
		result.Valid = true
		if mt, err := e.probe(id, kind); err == nil {
			result.ModTime = mt
		}
	}

	if err := e.cache.Put(id, result); err != nil {
		return "", err
	}
	return kind, nil
}

// validationError maps a failed validation stage onto the error
// taxonomy.
func validationError(kind object.Kind, id string, vr *ValidationResult) error {
	bare := object.StripPrefix(id)
	switch {
	case !vr.ObjectExists:
		return object.Errorf(object.ErrNotFound, "no %s with id %q on disk", kind, bare)
	case vr.MetadataValid && !vr.TypeMatches:
		return object.Errorf(object.ErrTypeMismatch, "%s", strings.Join(vr.Errors, "; "))
	default:
		return object.Errorf(object.ErrInvalidFormat, "stored %s %q failed validation: %s",
			kind, bare, strings.Join(vr.Errors, "; "))
	}
}

// ExtendedResult is the inspectable outcome of InferWithValidation.
type ExtendedResult struct {
	Kind     object.Kind   `json:"kind,omitempty"`
	IsValid  bool          `json:"is_valid"`
	Detail   string        `json:"detail,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
	CacheHit bool          `json:"cache_hit"`
}

// InferWithValidation classifies and validates an ID, capturing
// pattern-match and validation failures into the result instead of
// returning them. Only programmer misuse (empty ID) is an error.
func (e *Engine) InferWithValidation(id string) (*ExtendedResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, object.Errorf(object.ErrMissingRequired, "empty id")
	}
	start := time.Now()

	if cached, ok := e.cache.Get(id); ok && cached.Valid {
		return &ExtendedResult{
			Kind:     cached.Kind,
			IsValid:  true,
			Detail:   cached.Detail,
			Elapsed:  time.Since(start),
			CacheHit: true,
		}, nil
	}

	res := &ExtendedResult{}
	kind, err := object.InferKind(id)
	if err != nil {
		res.Detail = err.Error()
		res.Elapsed = time.Since(start)
		return res, nil
	}
	res.Kind = kind

	vr := e.validator.ValidateObjectStructure(kind, id, "")
	if vr.IsValid {
		res.IsValid = true
		result := Result{ID: id, Kind: kind, Valid: true}
		if mt, err := e.probe(id, kind); err == nil {
			result.ModTime = mt
		}
		if err := e.cache.Put(id, result); err != nil {
			return nil, err
		}
	} else {
		res.Detail = strings.Join(vr.Errors, "; ")
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// ValidateObject checks an object against the live filesystem,
// bypassing the cache entirely: verification workflows must never see
// cached state. With an empty expected kind, the kind is inferred from
// the ID first.
func (e *Engine) ValidateObject(id string, expected object.Kind) (*ValidationResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, object.Errorf(object.ErrMissingRequired, "empty id")
	}

	kind := expected
	if kind == "" {
		inferred, err := object.InferKind(id)
		if err != nil {
			return nil, err
		}
		kind = inferred
	} else if err := object.ValidateKind(kind); err != nil {
		return nil, err
	}

	return e.validator.ValidateObjectStructure(kind, id, ""), nil
}

// CacheStats returns a snapshot of the engine-owned cache counters.
func (e *Engine) CacheStats() Stats { return e.cache.Stats() }
