// Package similarity scores the similarity of two MS/MS spectra.
//
// Intensities are square-root scaled and L2-normalized, peaks are paired
// within an m/z tolerance both directly and after shifting one spectrum by
// the precursor m/z difference, and a greedy one-to-one assignment over the
// candidate pairs (heaviest first) yields a cosine-style score together with
// the list of accepted peak matches.
//
// All functions are pure and safe for concurrent use on shared *Spectrum
// values.
package similarity
