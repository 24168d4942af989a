package services

import (
	"github.com/samber/lo"

	"github.com/nanobanana/agent/pkg/domain"
)

// HistoryWindow returns the most recent completed turns, at most size, in
// original order. Pending turns never enter a window, so an in-flight
// exchange can never feed itself as context.
func HistoryWindow(turns []domain.Turn, size int) []domain.Turn {
	completed := lo.Filter(turns, func(t domain.Turn, _ int) bool {
		return !t.Pending
	})

	if size <= 0 || len(completed) <= size {
		return completed
	}
	return completed[len(completed)-size:]
}
