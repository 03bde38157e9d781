// Package frame turns FRED JSON envelopes into typed tables.
//
// Parse finds the envelope's record array, orders columns by first appearance
// and types each column: known date fields become time.Time, columns whose
// cells all read as numbers become int64 or float64, and the rest keep their
// decoded form. A table can then be read back as records, as a header-less
// value grid, or written as comma, tab or pipe separated text.
package frame
