package leaderboard

import "context"

// Reader aggregates points per activated user. Users without bets are
// returned with zero points.
type Reader interface {
	ListActivatedTotals(ctx context.Context) ([]Totals, error)
}

// SnapshotStore is the write side used while a match is being scored.
type SnapshotStore interface {
	Reader
	// UpdatePreviousRanks overwrites previous_rank for every listed user in
	// one bulk statement.
	UpdatePreviousRanks(ctx context.Context, ranks []RankSnapshot) error
}
