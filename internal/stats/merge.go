package stats

import (
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
)

// MergeDailyStats returns the additive union of two counter sets keyed by
// (entity identity, statDate). Matching keys sum mentions, citations, and
// responses; keys present on only one side pass through unchanged.
//
// Dimensional tags are not part of the key: the base row's tags win for
// matched keys, so callers must filter both inputs identically before
// merging. The two inputs must cover disjoint event windows (rollup = before
// cutoff, supplement = cutoff to now); there is no per-event deduplication.
func MergeDailyStats(base, supplement []domain.DailyStat) []domain.DailyStat {
	merged := make([]domain.DailyStat, len(base))
	copy(merged, base)

	index := make(map[domain.StatKey]int, len(merged))
	for i, stat := range merged {
		index[stat.Key()] = i
	}

	for _, stat := range supplement {
		key := stat.Key()
		if i, ok := index[key]; ok {
			merged[i].MentionsCount += stat.MentionsCount
			merged[i].CitationsCount += stat.CitationsCount
			merged[i].ResponsesAnalyzed += stat.ResponsesAnalyzed
			continue
		}
		index[key] = len(merged)
		merged = append(merged, stat)
	}

	return merged
}
