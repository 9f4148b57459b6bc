package core

// Dedupe keeps the first article for each URL, preserving input order.
// Articles without a real link never make it through.
func Dedupe(candidates []Article) []Article {
	seen := make(map[string]bool, len(candidates))
	unique := make([]Article, 0, len(candidates))

	for _, a := range candidates {
		if !a.HasLink() || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		unique = append(unique, a)
	}

	return unique
}
