// Package rank orders the entries of a FrequencyTable and selects the K-th most frequent.
//
// Entries are ordered by count, descending. Entries with equal counts are ordered by
// value, ascending, so the smaller of two equally frequent values always ranks first.
// This makes rankings reproducible regardless of how the counts were produced.
package rank
