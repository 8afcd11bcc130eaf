package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrOddsOutOfRange = errors.New("odds must be greater than 1.00 and less than 100.00")

var (
	minOdds = decimal.RequireFromString("1.00")
	maxOdds = decimal.RequireFromString("100.00")
)

// OddsScale is the number of fractional digits stored for odds and points.
const OddsScale = 2

// Odds holds the decimal payout for each bet type. A nil field means the
// admin has not priced that outcome yet.
type Odds struct {
	Home     *decimal.Decimal
	Draw     *decimal.Decimal
	Away     *decimal.Decimal
	HomeDraw *decimal.Decimal
	DrawAway *decimal.Decimal
	HomeAway *decimal.Decimal
}

// Match represents one tournament fixture.
type Match struct {
	ID         int64
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	GroupLabel string
	HomeScore  *int
	AwayScore  *int
	Odds       Odds
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsScored reports whether both final scores are recorded.
func (m Match) IsScored() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// IsOpen reports whether bets can still be placed or changed at now.
func (m Match) IsOpen(now time.Time) bool {
	return now.Before(m.KickoffAt)
}

// OddsUpdate carries the odds fields an admin wants to change. Nil fields are
// left untouched.
type OddsUpdate struct {
	Home     *decimal.Decimal
	Draw     *decimal.Decimal
	Away     *decimal.Decimal
	HomeDraw *decimal.Decimal
	DrawAway *decimal.Decimal
	HomeAway *decimal.Decimal
}

func (u OddsUpdate) IsEmpty() bool {
	return u.Home == nil && u.Draw == nil && u.Away == nil &&
		u.HomeDraw == nil && u.DrawAway == nil && u.HomeAway == nil
}

// Validate checks every provided value, at the stored precision, against the
// allowed odds range and returns the name of the first offending field.
func (u OddsUpdate) Validate() (string, error) {
	fields := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"oddsHome", u.Home},
		{"oddsDraw", u.Draw},
		{"oddsAway", u.Away},
		{"oddsHomeDraw", u.HomeDraw},
		{"oddsDrawAway", u.DrawAway},
		{"oddsHomeAway", u.HomeAway},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		stored := f.value.Round(OddsScale)
		if !stored.GreaterThan(minOdds) || !stored.LessThan(maxOdds) {
			return f.name, fmt.Errorf("%w: %s=%s", ErrOddsOutOfRange, f.name, f.value.String())
		}
	}
	return "", nil
}

// Apply returns a copy of odds with the update merged in, rounded to the
// stored precision.
func (u OddsUpdate) Apply(odds Odds) Odds {
	out := odds
	out.Home = mergeOdds(out.Home, u.Home)
	out.Draw = mergeOdds(out.Draw, u.Draw)
	out.Away = mergeOdds(out.Away, u.Away)
	out.HomeDraw = mergeOdds(out.HomeDraw, u.HomeDraw)
	out.DrawAway = mergeOdds(out.DrawAway, u.DrawAway)
	out.HomeAway = mergeOdds(out.HomeAway, u.HomeAway)
	return out
}

func mergeOdds(current, next *decimal.Decimal) *decimal.Decimal {
	if next == nil {
		return current
	}
	rounded := next.Round(OddsScale)
	return &rounded
}
