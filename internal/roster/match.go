package roster

// Match keeps the items whose code equals trainerCode exactly. There is no
// trimming, case folding or prefix matching: "PERS-2024-ABC123" does not match
// "pers-2024-abc123" or "PERS-2024-ABC1234". An empty code matches nothing.
func Match[T any](trainerCode string, items []T, codeOf func(T) string) []T {
	out := make([]T, 0, len(items))
	if trainerCode == "" {
		return out
	}
	for _, it := range items {
		if codeOf(it) == trainerCode {
			out = append(out, it)
		}
	}
	return out
}
