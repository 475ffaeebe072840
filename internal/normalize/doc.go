// Package normalize maps raw API records onto canonical rows.
//
// The data API serves different field names per market category, so each
// target field resolves through an alias priority table. Normalization is
// pure and total: it performs no I/O and never fails; fields the source
// can't supply come out as zero values.
package normalize
