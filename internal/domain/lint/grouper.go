package lint

import (
	"sort"

	"github.com/openkraft/domainlint/internal/domain"
)

// GroupViolations collapses violations sharing a group key into one group per
// key, ordered by key. Every input violation ends up in exactly one group, in
// its original relative order.
func GroupViolations(violations []domain.Violation) []domain.ViolationGroup {
	sorted := make([]domain.Violation, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := sorted[i].GroupKey(), sorted[j].GroupKey()
		if ki != kj {
			return ki < kj
		}
		return sorted[i].Kind < sorted[j].Kind
	})

	var groups []domain.ViolationGroup
	for start := 0; start < len(sorted); {
		first := sorted[start]
		key := first.GroupKey()
		end := start + 1
		for end < len(sorted) && sorted[end].Kind == first.Kind && sorted[end].GroupKey() == key {
			end++
		}
		groups = append(groups, domain.ViolationGroup{
			Key:        key,
			Kind:       first.Kind,
			Message:    first.Message(),
			Violations: sorted[start:end:end],
		})
		start = end
	}
	return groups
}
