package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	"github.com/ChrisMcGann/SpecAlign/pkg/resolve"
)

const selectColumns = `
	SpectrumId, Name, PrecursorMass, Charge, RetentionTime, CollisionEnergy,
	IonMode, InstrumentName, SourceFile, SourceFormat, SourceIndex,
	blobMass, blobIntensity`

// Library provides read access to a database written by Writer.
type Library struct {
	db   *sql.DB
	path string
}

// Open opens an existing library read-only.
func Open(path string) (*Library, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var version int
	if err := db.QueryRow(`SELECT version FROM HeaderTable LIMIT 1`).Scan(&version); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s is not a spectral library: %w", path, err)
	}
	if version != schemaVersion {
		db.Close()
		return nil, fmt.Errorf("%s has library version %d, expected %d", path, version, schemaVersion)
	}

	return &Library{db: db, path: path}, nil
}

// Close closes the database connection.
func (l *Library) Close() error {
	return l.db.Close()
}

// Count returns the number of spectra in the library.
func (l *Library) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM SpectrumTable`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count spectra: %w", err)
	}
	return n, nil
}

// All returns every spectrum in insertion order.
func (l *Library) All(ctx context.Context) ([]*core.Spectrum, error) {
	return l.query(ctx, `SELECT`+selectColumns+` FROM SpectrumTable ORDER BY SpectrumId`)
}

// ByName returns all spectra with the given name.
func (l *Library) ByName(ctx context.Context, name string) ([]*core.Spectrum, error) {
	return l.query(ctx, `SELECT`+selectColumns+` FROM SpectrumTable WHERE Name = ? ORDER BY SpectrumId`, name)
}

// Resolve implements resolve.Resolver. Identifiers are matched against
// SourceFile#SourceIndex references first, then against names.
func (l *Library) Resolve(ctx context.Context, id string) (*core.Spectrum, error) {
	if file, index, ok := resolve.ParseRef(id); ok {
		spectra, err := l.query(ctx, `SELECT`+selectColumns+` FROM SpectrumTable
			WHERE SourceFile = ? AND SourceIndex = ? ORDER BY SpectrumId`, file, index)
		if err != nil {
			return nil, &resolve.ResolutionError{ID: id, Reason: "library query failed", Err: err}
		}
		if len(spectra) == 1 {
			return spectra[0], nil
		}
	}

	spectra, err := l.ByName(ctx, id)
	if err != nil {
		return nil, &resolve.ResolutionError{ID: id, Reason: "library query failed", Err: err}
	}

	switch len(spectra) {
	case 0:
		return nil, &resolve.ResolutionError{ID: id, Reason: "not in " + l.path, Err: resolve.ErrNotFound}
	case 1:
		return spectra[0], nil
	default:
		refs := make([]string, len(spectra))
		for i, s := range spectra {
			refs[i] = fmt.Sprintf("%s#%d", s.SourceFile, s.SourceIndex)
		}
		return nil, &resolve.ResolutionError{
			ID:     id,
			Reason: fmt.Sprintf("%d spectra share this name in %s (%s)", len(spectra), l.path, strings.Join(refs, ", ")),
			Err:    resolve.ErrAmbiguous,
		}
	}
}

func (l *Library) query(ctx context.Context, query string, args ...interface{}) ([]*core.Spectrum, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spectra: %w", err)
	}
	defer rows.Close()

	var spectra []*core.Spectrum
	for rows.Next() {
		spec, err := scanSpectrum(rows)
		if err != nil {
			return nil, err
		}
		spectra = append(spectra, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spectra: %w", err)
	}

	return spectra, nil
}

func scanSpectrum(rows *sql.Rows) (*core.Spectrum, error) {
	var (
		id        int64
		precursor float64
		charge    sql.NullInt64
		index     sql.NullInt64
		rt, ce    sql.NullFloat64
		name      sql.NullString
		ionMode   sql.NullString
		instr     sql.NullString
		file      sql.NullString
		format    sql.NullString
		mzBlob    []byte
		intBlob   []byte
	)

	if err := rows.Scan(&id, &name, &precursor, &charge, &rt, &ce,
		&ionMode, &instr, &file, &format, &index, &mzBlob, &intBlob); err != nil {
		return nil, fmt.Errorf("failed to scan spectrum: %w", err)
	}

	peaks, err := decodePeaksFloat64(mzBlob, intBlob)
	if err != nil {
		return nil, fmt.Errorf("spectrum %d: %w", id, err)
	}

	spec := &core.Spectrum{
		Name:         name.String,
		PrecursorMZ:  precursor,
		Peaks:        peaks,
		Charge:       int(charge.Int64),
		IonMode:      ionMode.String,
		Instrument:   instr.String,
		SourceFile:   file.String,
		SourceFormat: format.String,
		SourceIndex:  int(index.Int64),
	}
	if rt.Valid {
		v := rt.Float64
		spec.RetentionTime = &v
	}
	if ce.Valid {
		v := ce.Float64
		spec.CollisionEnergy = &v
	}

	return spec, nil
}
