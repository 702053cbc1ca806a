package engine

// CategoryMap resolves raw transaction categories ("Food", "Dining") to the
// canonical budget category names ("Food & Dining").
type CategoryMap map[string]string

// Resolve returns the canonical name for raw, or raw itself when unmapped.
func (m CategoryMap) Resolve(raw string) string {
	if canonical, ok := m[raw]; ok {
		return canonical
	}
	return raw
}
