// Package resolve maps spectrum identifiers to library spectra.
//
// Identifiers are either a spectrum name as stored in the library or a
// "file#index" reference to the index-th spectrum (0-based) of a file.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/ChrisMcGann/SpecAlign/pkg/reader"
)

var (
	// ErrNotFound means no library holds the identifier.
	ErrNotFound = errors.New("spectrum not found")
	// ErrAmbiguous means the identifier names more than one spectrum.
	ErrAmbiguous = errors.New("identifier is ambiguous")
)

// ResolutionError reports why an identifier could not be resolved.
type ResolutionError struct {
	ID     string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve %q: %s: %v", e.ID, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q: %s", e.ID, e.Reason)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolver maps an identifier to a spectrum. Implementations return a copy
// the caller may modify.
type Resolver interface {
	Resolve(ctx context.Context, id string) (*core.Spectrum, error)
}

// MemoryResolver resolves identifiers against spectra held in memory.
type MemoryResolver struct {
	spectra []*core.Spectrum
	byName  map[string][]int
	byRef   map[string]int
}

// NewMemoryResolver indexes spectra by name and by "file#index".
func NewMemoryResolver(spectra []*core.Spectrum) *MemoryResolver {
	m := &MemoryResolver{
		byName: make(map[string][]int),
		byRef:  make(map[string]int),
	}
	for _, spec := range spectra {
		m.add(spec)
	}
	return m
}

func (m *MemoryResolver) add(spec *core.Spectrum) {
	i := len(m.spectra)
	m.spectra = append(m.spectra, spec)
	if spec.Name != "" {
		m.byName[spec.Name] = append(m.byName[spec.Name], i)
	}
	m.byRef[ref(spec.SourceFile, spec.SourceIndex)] = i
}

// LoadFiles reads every file into a single MemoryResolver. An empty format
// is detected per file from its extension.
func LoadFiles(paths []string, format string) (*MemoryResolver, error) {
	m := NewMemoryResolver(nil)
	for _, path := range paths {
		spectra, err := reader.ReadFile(path, format)
		if err != nil {
			return nil, err
		}
		for _, spec := range spectra {
			m.add(spec)
		}
	}
	return m, nil
}

// Resolve implements Resolver.
func (m *MemoryResolver) Resolve(ctx context.Context, id string) (*core.Spectrum, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if i, ok := m.byRef[id]; ok {
		return m.spectra[i].Clone(), nil
	}

	switch idx := m.byName[id]; len(idx) {
	case 0:
		return nil, &ResolutionError{ID: id, Reason: "no spectrum with this name or reference", Err: ErrNotFound}
	case 1:
		return m.spectra[idx[0]].Clone(), nil
	default:
		refs := make([]string, 0, len(idx))
		for _, i := range idx {
			refs = append(refs, ref(m.spectra[i].SourceFile, m.spectra[i].SourceIndex))
		}
		return nil, &ResolutionError{
			ID:     id,
			Reason: fmt.Sprintf("%d spectra share this name (%s)", len(idx), strings.Join(refs, ", ")),
			Err:    ErrAmbiguous,
		}
	}
}

// Spectra returns copies of all spectra in load order.
func (m *MemoryResolver) Spectra() []*core.Spectrum {
	out := make([]*core.Spectrum, len(m.spectra))
	for i, spec := range m.spectra {
		out[i] = spec.Clone()
	}
	return out
}

// Len returns the number of spectra held.
func (m *MemoryResolver) Len() int {
	return len(m.spectra)
}

// Chain tries each resolver in order and returns the first hit. Only
// ErrNotFound moves on to the next resolver.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(ctx context.Context, id string) (*core.Spectrum, error) {
	for _, r := range c {
		spec, err := r.Resolve(ctx, id)
		if err == nil {
			return spec, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, &ResolutionError{ID: id, Reason: "not found in any library", Err: ErrNotFound}
}

// ParseRef splits a "file#index" reference. ok is false when id is not one.
func ParseRef(id string) (file string, index int, ok bool) {
	i := strings.LastIndexByte(id, '#')
	if i <= 0 || i == len(id)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return id[:i], n, true
}

func ref(file string, index int) string {
	return fmt.Sprintf("%s#%d", file, index)
}
