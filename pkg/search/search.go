// Package search scores a query spectrum against a spectral library on a
// pool of workers.
package search

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/ChrisMcGann/SpecAlign/pkg/filter"
	"github.com/ChrisMcGann/SpecAlign/pkg/similarity"
)

// Options controls scoring and ranking.
type Options struct {
	Tolerance float64
	MinMatch  int
	Workers   int     // 0 = runtime.NumCPU()
	Top       int     // 0 = all hits
	MinScore  float64 // hits must score strictly above 0 and at least MinScore
}

// Hit is one library spectrum that scored against the query.
type Hit struct {
	Rank        int     `json:"rank"`
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	PrecursorMZ float64 `json:"precursor_mz"`
	Score       float64 `json:"score"`
	Matches     int     `json:"matches"`
}

// Skipped records a library spectrum that could not be prepared.
type Skipped struct {
	Label string
	Err   error
}

// Searcher holds a prepared library.
type Searcher struct {
	library []*similarity.Spectrum
	opts    Options
}

// NewSearcher validates opts and returns a Searcher over library.
func NewSearcher(library []*similarity.Spectrum, opts Options) (*Searcher, error) {
	if opts.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", opts.Workers)
	}
	if opts.Top < 0 {
		return nil, fmt.Errorf("top must not be negative, got %d", opts.Top)
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}

	if err := similarity.ValidateParameters(opts.Tolerance, opts.MinMatch); err != nil {
		return nil, err
	}

	return &Searcher{library: library, opts: opts}, nil
}

// Len returns the library size.
func (s *Searcher) Len() int {
	return len(s.library)
}

// Search aligns query against every library spectrum and returns hits
// ordered by descending score, ties in library order, cut to Options.Top.
func (s *Searcher) Search(ctx context.Context, query *similarity.Spectrum) ([]Hit, error) {
	results := make([]similarity.Result, len(s.library))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i := range s.library {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := similarity.Align(query, s.library[i], s.opts.Tolerance, s.opts.MinMatch)
			if err != nil {
				return fmt.Errorf("library spectrum %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := []Hit{}
	for i, res := range results {
		if res.Score <= 0 || res.Score < s.opts.MinScore {
			continue
		}
		hits = append(hits, Hit{
			Index:       i,
			Name:        s.library[i].Name(),
			PrecursorMZ: s.library[i].PrecursorMZ(),
			Score:       res.Score,
			Matches:     len(res.Matches),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if s.opts.Top > 0 && len(hits) > s.opts.Top {
		hits = hits[:s.opts.Top]
	}
	for i := range hits {
		hits[i].Rank = i + 1
	}

	return hits, nil
}

// Prepare filters and prepares library records for searching. Records that
// fail validation or normalization are reported in skipped and left out.
// The records themselves are not modified.
func Prepare(records []*core.Spectrum, cfg filter.Config) (library []*similarity.Spectrum, skipped []Skipped) {
	for _, rec := range records {
		spec := rec.Clone()
		cfg.Apply(spec)

		if err := spec.Validate(); err != nil {
			skipped = append(skipped, Skipped{Label: rec.Label(), Err: err})
			continue
		}

		prepared, err := similarity.Prepare(spec)
		if err != nil {
			skipped = append(skipped, Skipped{Label: rec.Label(), Err: err})
			continue
		}
		library = append(library, prepared)
	}
	return library, skipped
}
