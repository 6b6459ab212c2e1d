package match

// PrepareUpsert validates items and collapses duplicate ids. When the same id appears
// more than once a finished record wins over a non-finished one, otherwise the later
// record wins. Order of first appearance is preserved.
func PrepareUpsert(items []Match) ([]Match, int) {
	out := make([]Match, 0, len(items))
	indexByID := make(map[string]int, len(items))
	skipped := 0

	for _, item := range items {
		if err := item.Validate(); err != nil {
			skipped++
			continue
		}

		idx, seen := indexByID[item.ID]
		if !seen {
			indexByID[item.ID] = len(out)
			out = append(out, item.Clone())
			continue
		}
		if out[idx].Status == StatusFinished && item.Status != StatusFinished {
			continue
		}
		out[idx] = item.Clone()
	}

	return out, skipped
}

// DedupeByID keeps the first record seen for every id.
func DedupeByID(items []Match) []Match {
	seen := make(map[string]struct{}, len(items))
	out := make([]Match, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
