package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "quizarena"

	leaderboardService = "leaderboard"
	resultsService     = "results"
	sessionService     = "attempts"
)

// GenerateCacheKey joins the global prefix, service, object type and identifier with ":".
// Extra params are joined by "_" and appended as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return baseKey + ":" + strings.Join(paramsKey, "_")
	}
	return baseKey
}

// LeaderboardKey is the snapshot key for the top-n leaderboard.
func LeaderboardKey(n int) string {
	return GenerateCacheKey(leaderboardService, "top", strconv.Itoa(n))
}

// LeaderboardKeys lists every snapshot key a write may have made stale.
func LeaderboardKeys(limits ...int) []string {
	keys := make([]string, 0, len(limits))
	for _, n := range limits {
		keys = append(keys, LeaderboardKey(n))
	}
	return keys
}

// PendingResultsKey is the hash holding results that failed to persist.
func PendingResultsKey() string {
	return GenerateCacheKey(resultsService, "pending", "all")
}

// ActiveAttemptKey marks the account's in-flight attempt for other replicas.
func ActiveAttemptKey(accountID string) string {
	return GenerateCacheKey(sessionService, "active", accountID)
}
