package kthfreq

// A FrequencyTable maps a value to its number of occurrences. Keys carry no ordering.
type FrequencyTable map[int]int

// Len returns the number of distinct values in this FrequencyTable
func (ft FrequencyTable) Len() int {
	return len(ft)
}

// Total returns the sum of all counts in this FrequencyTable
func (ft FrequencyTable) Total() int {
	total := 0
	for _, c := range ft {
		total += c
	}
	return total
}

// Clone returns a copy of this FrequencyTable. Cloning a nil table yields an empty one.
func (ft FrequencyTable) Clone() FrequencyTable {
	res := make(FrequencyTable, len(ft))
	for v, c := range ft {
		res[v] = c
	}
	return res
}

// Entries returns the contents of this FrequencyTable as unordered RankedEntries
func (ft FrequencyTable) Entries() []RankedEntry {
	entries := make([]RankedEntry, 0, len(ft))
	for v, c := range ft {
		entries = append(entries, RankedEntry{Value: v, Count: c})
	}
	return entries
}

// MergeTables sums any number of FrequencyTables into a new one. A value absent
// from a table counts as zero there, and nil tables are treated as empty. The
// inputs are left untouched, and the result does not depend on their order.
func MergeTables(tables ...FrequencyTable) FrequencyTable {
	size := 0
	for _, t := range tables {
		if len(t) > size {
			size = len(t)
		}
	}
	merged := make(FrequencyTable, size)
	for _, t := range tables {
		for v, c := range t {
			merged[v] += c
		}
	}
	return merged
}
