package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// SortTotals orders by total points descending, then nickname ascending
// ignoring case. The nickname only makes the order deterministic; it never
// affects ranks.
func SortTotals(items []Totals) {
	sort.SliceStable(items, func(i, j int) bool {
		if cmp := items[i].TotalPoints.Cmp(items[j].TotalPoints); cmp != 0 {
			return cmp > 0
		}
		left, right := strings.ToLower(items[i].Nickname), strings.ToLower(items[j].Nickname)
		if left != right {
			return left < right
		}
		if items[i].Nickname != items[j].Nickname {
			return items[i].Nickname < items[j].Nickname
		}
		return items[i].UserID < items[j].UserID
	})
}

// AssignRanks applies standard competition ranking ("1224") to an already
// sorted slice. An entry shares the previous rank only when its total is
// exactly equal; otherwise its rank is its 1-based position.
func AssignRanks(sorted []Totals) []int {
	ranks := make([]int, len(sorted))
	for idx := range sorted {
		if idx > 0 && sorted[idx].TotalPoints.Equal(sorted[idx-1].TotalPoints) {
			ranks[idx] = ranks[idx-1]
			continue
		}
		ranks[idx] = idx + 1
	}
	return ranks
}

// MovementOf compares a current rank with the rank captured at the last
// scoring event. A smaller rank number is a better position.
func MovementOf(current int, previous *int) RankMovement {
	if previous == nil {
		return RankMovementNew
	}
	switch {
	case current < *previous:
		return RankMovementUp
	case current > *previous:
		return RankMovementDown
	default:
		return RankMovementSame
	}
}

// Build sorts and ranks totals into leaderboard entries. The input slice is
// not modified.
func Build(totals []Totals) []Entry {
	sorted := append([]Totals(nil), totals...)
	SortTotals(sorted)
	ranks := AssignRanks(sorted)

	out := make([]Entry, 0, len(sorted))
	for idx, item := range sorted {
		out = append(out, Entry{
			Position:         ranks[idx],
			UserID:           item.UserID,
			Nickname:         item.Nickname,
			TotalPoints:      item.TotalPoints,
			PreviousPosition: item.PreviousRank,
			Movement:         MovementOf(ranks[idx], item.PreviousRank),
		})
	}
	return out
}

// SnapshotPreviousRanks ranks the current totals and stores each activated
// user's rank as previous_rank. It must run before the new points of a
// match are applied so the stored ranks describe the state right before
// the scoring event.
func SnapshotPreviousRanks(ctx context.Context, store SnapshotStore) (int, error) {
	totals, err := store.ListActivatedTotals(ctx)
	if err != nil {
		return 0, fmt.Errorf("list activated totals for rank snapshot: %w", err)
	}
	if len(totals) == 0 {
		return 0, nil
	}

	entries := Build(totals)
	snapshots := make([]RankSnapshot, 0, len(entries))
	for _, entry := range entries {
		snapshots = append(snapshots, RankSnapshot{UserID: entry.UserID, Rank: entry.Position})
	}

	if err := store.UpdatePreviousRanks(ctx, snapshots); err != nil {
		return 0, fmt.Errorf("update previous ranks: %w", err)
	}
	return len(snapshots), nil
}
