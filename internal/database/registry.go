package database

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// OpenFunc connects an adapter to the database addressed by url.
type OpenFunc func(ctx context.Context, url string, logger *slog.Logger) (Pool, error)

type engine struct {
	name string
	open OpenFunc
}

var (
	registryMu sync.RWMutex
	engines    = make(map[string]engine) // keyed by URL scheme
)

// Register adds an adapter for the given URL schemes.
// Called by adapter packages in their init() functions.
func Register(name string, schemes []string, open OpenFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, s := range schemes {
		engines[strings.ToLower(s)] = engine{name: name, open: open}
	}
}

// Scheme returns the lower-cased scheme of a connection URL.
func Scheme(url string) string {
	scheme, _, ok := strings.Cut(url, ":")
	if !ok {
		return ""
	}
	return strings.ToLower(scheme)
}

// EngineFor returns the adapter name that handles url.
func EngineFor(url string) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := engines[Scheme(url)]
	return e.name, ok
}

// Open selects the adapter by the URL scheme and connects it.
// A nil logger discards log output.
func Open(ctx context.Context, url string, logger *slog.Logger) (Pool, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	scheme := Scheme(url)
	registryMu.RLock()
	e, ok := engines[scheme]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownEngineError{Scheme: scheme, Available: Engines()}
	}

	logger.Debug("opening pool", slog.String("engine", e.name))
	return e.open(ctx, url, logger.With(slog.String("engine", e.name)))
}

// Engines returns the registered adapter names (sorted).
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	seen := make(map[string]bool)
	names := make([]string, 0, len(engines))
	for _, e := range engines {
		if !seen[e.name] {
			seen[e.name] = true
			names = append(names, e.name)
		}
	}
	sort.Strings(names)
	return names
}
