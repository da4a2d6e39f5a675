// Package namespace maps symbolic module namespaces onto filesystem
// directories and turns files under those directories back into the module
// paths a browser-side loader requests.
package namespace

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/zjrosen/modmap/internal/log"
	"github.com/zjrosen/modmap/internal/paths"
)

var (
	separatorRun = regexp.MustCompile(`[/\\]+`)
	coffeeExt    = regexp.MustCompile(`\.coffee$`)
	urlScheme    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
)

// Resolver turns a file path into a public module path.
type Resolver interface {
	ResolveModulePath(filename string) (string, bool)
}

// Definition describes one namespace to register.
type Definition struct {
	Name    string
	Path    string
	BaseURL string
}

// Entry is a snapshot of a registered namespace.
type Entry struct {
	Name    string // e.g., "app"
	Path    string // canonical directory or file
	BaseURL string // effective public base, override or basePath/name
}

// Registry holds the namespace table. Entries are matched in the order
// they were first registered and are never removed.
type Registry struct {
	basePath  string
	assetRoot string

	mu         sync.RWMutex
	order      []string
	namespaces map[string]string // name → canonical path
	baseURLs   map[string]string // name → base URL override
}

var _ Resolver = (*Registry)(nil)

// New creates an empty registry. basePath is the public root used when a
// namespace has no base URL override; assetRoot is where relative paths
// are resolved from. Neither is validated.
func New(basePath, assetRoot string) *Registry {
	return &Registry{
		basePath:   basePath,
		assetRoot:  assetRoot,
		namespaces: make(map[string]string),
		baseURLs:   make(map[string]string),
	}
}

// BasePath returns the default public root.
func (r *Registry) BasePath() string {
	return r.basePath
}

// AssetRoot returns the directory relative paths are resolved against.
func (r *Registry) AssetRoot() string {
	return r.assetRoot
}

// Register resolves path and stores it under name. Re-registering a name
// replaces its path but keeps its original precedence. An empty baseURL
// leaves any earlier override in place.
//
// Returns a *PathNotFoundError when path does not exist; the table is left
// unchanged in that case.
func (r *Registry) Register(name, path, baseURL string) error {
	if name == "" {
		return ErrEmptyNamespace
	}

	realPath, err := paths.Canonicalize(r.assetRoot, path)
	if err != nil {
		log.ErrorErr(log.CatRegistry, "Namespace path not found", err, "namespace", name, "path", path)
		return &PathNotFoundError{Namespace: name, Path: path, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.namespaces[name]; !exists {
		r.order = append(r.order, name)
	}
	r.namespaces[name] = realPath
	if baseURL != "" {
		r.baseURLs[name] = baseURL
	}

	log.Debug(log.CatRegistry, "Registered namespace", "namespace", name, "path", realPath, "base_url", baseURL)
	return nil
}

// RegisterAll registers defs in order and stops at the first failure.
// Namespaces registered before the failure stay registered.
func (r *Registry) RegisterAll(defs []Definition) error {
	for _, def := range defs {
		if err := r.Register(def.Name, def.Path, def.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

// ResolveModulePath returns the module path for filename, or false when
// the file does not exist or lies outside every namespace.
//
// Namespaces are matched by plain string prefix on canonical paths, so a
// namespace at /a/b also claims /a/bc/file.js. The first registered match
// wins.
func (r *Registry) ResolveModulePath(filename string) (string, bool) {
	filePath, err := paths.Canonicalize(r.assetRoot, filename)
	if err != nil {
		log.Debug(log.CatResolve, "File not found", "file", filename)
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		realPath := r.namespaces[name]
		if !strings.HasPrefix(filePath, realPath) {
			continue
		}

		modulePath := r.baseFor(name)
		if paths.IsRegularFile(filePath) {
			modulePath += "/" + baseName(filePath, realPath)
		}

		modulePath = collapseSeparators(modulePath)
		log.Debug(log.CatResolve, "Resolved module path", "file", filePath, "namespace", name, "module_path", modulePath)
		return modulePath, true
	}

	log.Debug(log.CatResolve, "No namespace matched", "file", filePath)
	return "", false
}

// Namespaces returns the registered namespaces in precedence order.
func (r *Registry) Namespaces() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, Entry{
			Name:    name,
			Path:    r.namespaces[name],
			BaseURL: r.baseFor(name),
		})
	}
	return entries
}

// Len returns the number of registered namespaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// baseFor must be called with r.mu held.
func (r *Registry) baseFor(name string) string {
	if baseURL, ok := r.baseURLs[name]; ok {
		return baseURL
	}
	return r.basePath + "/" + name
}

// baseName strips the namespace root from filePath. A namespace registered
// as a single file strips to nothing, in which case the file's own name is
// used.
func baseName(filePath, realPath string) string {
	name := strings.TrimPrefix(filePath, realPath)
	if name == "" {
		name = filepath.Base(filePath)
	}
	return coffeeExt.ReplaceAllString(name, ".js")
}

// collapseSeparators squeezes runs of / and \ into a single /, leaving the
// "//" of a leading URL scheme alone.
func collapseSeparators(p string) string {
	scheme := urlScheme.FindString(p)
	return scheme + separatorRun.ReplaceAllString(p[len(scheme):], "/")
}
