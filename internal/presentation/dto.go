package presentation

import (
	"github.com/zjrosen/modmap/internal/namespace"
)

// NamespaceDTO represents a registered namespace for presentation
type NamespaceDTO struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	BaseURL string `json:"base_url"`
}

// ResolutionDTO is the outcome of looking up one file
type ResolutionDTO struct {
	File       string `json:"file"`
	ModulePath string `json:"module_path,omitempty"`
	Found      bool   `json:"found"`
}

// FromEntries converts registry entries to DTOs, keeping their order.
func FromEntries(entries []namespace.Entry) []NamespaceDTO {
	dtos := make([]NamespaceDTO, len(entries))
	for i, e := range entries {
		dtos[i] = NamespaceDTO{
			Name:    e.Name,
			Path:    e.Path,
			BaseURL: e.BaseURL,
		}
	}
	return dtos
}

// Resolve looks up every file with r and returns one DTO per file.
func Resolve(r namespace.Resolver, files []string) []ResolutionDTO {
	results := make([]ResolutionDTO, len(files))
	for i, file := range files {
		modulePath, ok := r.ResolveModulePath(file)
		results[i] = ResolutionDTO{
			File:       file,
			ModulePath: modulePath,
			Found:      ok,
		}
	}
	return results
}
