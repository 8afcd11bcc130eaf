package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation bets does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches unique violation code", func(t *testing.T) {
		err := fmt.Errorf("create bet: %w", &pq.Error{Code: "23505", Constraint: "bets_user_id_match_id_key"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("duplicate key value violates unique constraint")) {
			t.Fatalf("expected false for non pq error")
		}
	})
}

func TestNullConversions(t *testing.T) {
	if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil for null int, got %v", *got)
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{Int64: 3, Valid: true}); got == nil || *got != 3 {
		t.Fatalf("unexpected int pointer: %v", got)
	}

	if got := nullDecimalToPtr(decimal.NullDecimal{}); got != nil {
		t.Fatalf("expected nil for null decimal")
	}
	odds := decimal.RequireFromString("2.50")
	roundTrip := nullDecimalToPtr(decimalPtrToNull(&odds))
	if roundTrip == nil || !roundTrip.Equal(odds) {
		t.Fatalf("unexpected decimal round trip: %v", roundTrip)
	}
	if decimalPtrToNull(nil).Valid {
		t.Fatalf("expected invalid null decimal for nil pointer")
	}

	if stringToNull("").Valid || nullStringValue(stringToNull("Group A")) != "Group A" {
		t.Fatalf("unexpected string conversion")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
