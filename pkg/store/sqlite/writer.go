// Package sqlite stores spectral libraries in SQLite databases
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ChrisMcGann/SpecAlign/pkg/core"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Library schema version written to HeaderTable
	schemaVersion = 1
)

const schema = `
	CREATE TABLE IF NOT EXISTS SpectrumTable (
		SpectrumId INTEGER PRIMARY KEY,
		Name TEXT,
		PrecursorMass DOUBLE NOT NULL,
		Charge INTEGER,
		RetentionTime DOUBLE,
		CollisionEnergy DOUBLE,
		IonMode TEXT,
		InstrumentName TEXT,
		SourceFile TEXT,
		SourceFormat TEXT,
		SourceIndex INTEGER,
		NumPeaks INTEGER NOT NULL,
		blobMass BLOB,
		blobIntensity BLOB
	);

	CREATE INDEX IF NOT EXISTS idx_spectrum_name ON SpectrumTable(Name);
	CREATE INDEX IF NOT EXISTS idx_spectrum_source ON SpectrumTable(SourceFile, SourceIndex);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		LastModifiedDate TEXT,
		Description TEXT,
		SpectrumCount INTEGER
	);
`

// Writer handles writing spectra to SQLite database files. All spectra are
// written in a single transaction committed by Finalize.
type Writer struct {
	db           *sql.DB
	tx           *sql.Tx
	outputPath   string
	spectrumStmt *sql.Stmt
	count        int
	finalized    bool
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	w := &Writer{
		db:         db,
		outputPath: outputPath,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements opens the import transaction and prepares the insert
func (w *Writer) prepareStatements() error {
	var err error

	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.spectrumStmt, err = w.tx.Prepare(`
		INSERT INTO SpectrumTable (
			Name, PrecursorMass, Charge, RetentionTime, CollisionEnergy,
			IonMode, InstrumentName, SourceFile, SourceFormat, SourceIndex,
			NumPeaks, blobMass, blobIntensity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		return fmt.Errorf("failed to prepare spectrum statement: %w", err)
	}

	return nil
}

// WriteSpectrum writes a single spectrum to the database
func (w *Writer) WriteSpectrum(spec *core.Spectrum) error {
	if w.finalized {
		return fmt.Errorf("writer for %s is already finalized", w.outputPath)
	}

	peaks := spec.Peaks
	// Ensure peaks are sorted without touching the caller's slice
	if !spec.ArePeaksSorted() {
		peaks = append([]core.Peak(nil), spec.Peaks...)
		core.SortPeaks(peaks)
	}

	// Encode peaks as binary blobs (little-endian float64)
	mzBlob := encodePeaksFloat64(peaks, true)   // m/z values
	intBlob := encodePeaksFloat64(peaks, false) // intensity values

	// Handle optional retention time
	var rt interface{} = nil
	if spec.RetentionTime != nil {
		rt = *spec.RetentionTime
	}

	// Handle optional collision energy
	var ce interface{} = nil
	if spec.CollisionEnergy != nil {
		ce = *spec.CollisionEnergy
	}

	_, err := w.spectrumStmt.Exec(
		spec.Name,         // Name
		spec.PrecursorMZ,  // PrecursorMass
		spec.Charge,       // Charge
		rt,                // RetentionTime
		ce,                // CollisionEnergy
		spec.IonMode,      // IonMode
		spec.Instrument,   // InstrumentName
		spec.SourceFile,   // SourceFile
		spec.SourceFormat, // SourceFormat
		spec.SourceIndex,  // SourceIndex
		len(peaks),        // NumPeaks
		mzBlob,            // blobMass
		intBlob,           // blobIntensity
	)
	if err != nil {
		return fmt.Errorf("failed to insert spectrum: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of spectra written so far
func (w *Writer) Count() int {
	return w.count
}

// encodePeaksFloat64 encodes peak data as little-endian float64 blob
func encodePeaksFloat64(peaks []core.Peak, useMZ bool) []byte {
	buf := make([]byte, len(peaks)*8)
	for i, peak := range peaks {
		var value float64
		if useMZ {
			value = peak.MZ
		} else {
			value = peak.Intensity
		}
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(value))
	}
	return buf
}

// decodePeaksFloat64 is the inverse of encodePeaksFloat64 for a pair of blobs
func decodePeaksFloat64(mzBlob, intBlob []byte) ([]core.Peak, error) {
	if len(mzBlob)%8 != 0 || len(mzBlob) != len(intBlob) {
		return nil, fmt.Errorf("corrupt peak blobs: %d m/z bytes, %d intensity bytes", len(mzBlob), len(intBlob))
	}

	peaks := make([]core.Peak, len(mzBlob)/8)
	for i := range peaks {
		peaks[i] = core.Peak{
			MZ:        math.Float64frombits(binary.LittleEndian.Uint64(mzBlob[i*8:])),
			Intensity: math.Float64frombits(binary.LittleEndian.Uint64(intBlob[i*8:])),
		}
	}
	return peaks, nil
}

// Finalize writes the header table, commits and closes the database
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	today := time.Now().Format(headerDateFormat)
	_, err := w.tx.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, LastModifiedDate, Description, SpectrumCount)
		VALUES (?, ?, ?, ?, ?)
	`, schemaVersion, today, today, "", w.count)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close prepared statements
	if w.spectrumStmt != nil {
		w.spectrumStmt.Close()
	}

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit: %w", err)
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
