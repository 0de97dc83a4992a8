package utils

// ResolveOrCreate plans the first phase of a lazy lookup table refresh.
// It returns one new row for every distinct name not yet present in index,
// together with a copy of index that also holds those rows. The caller
// persists toCreate and then reads ids back into the returned index, so the
// function itself never touches storage.
func ResolveOrCreate[R any](index map[string]R, names []string, newRow func(name string) R) (toCreate []R, updated map[string]R) {
	updated = make(map[string]R, len(index)+len(names))
	for name, row := range index {
		updated[name] = row
	}
	toCreate = make([]R, 0)
	for _, name := range SortedUniques(names) {
		if _, ok := updated[name]; ok {
			continue
		}
		row := newRow(name)
		updated[name] = row
		toCreate = append(toCreate, row)
	}
	return toCreate, updated
}
