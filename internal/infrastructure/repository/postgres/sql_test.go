package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation historical_matches does not exist")) {
		t.Fatalf("expected unrelated error not to be not found")
	}
}

func TestNullConversions(t *testing.T) {
	if got := nullInt64ToInt(sql.NullInt64{}); got != 0 {
		t.Fatalf("expected 0 for null int, got %d", got)
	}
	if got := nullInt64ToInt(intToNull(3)); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := stringToNull("  "); got.Valid {
		t.Fatalf("expected blank string to be null")
	}
	if got := nullTimeToPtr(sql.NullTime{}); got != nil {
		t.Fatalf("expected nil time for null")
	}
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	if got := nullTimeToPtr(sql.NullTime{Time: now, Valid: true}); got == nil || got.Location() != time.UTC || !got.Equal(now) {
		t.Fatalf("expected utc copy of time, got %v", got)
	}
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got := chunk(items, 2)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0] != 5 {
		t.Fatalf("unexpected chunks: %v", got)
	}
	if got := chunk(items, 10); len(got) != 1 || len(got[0]) != 5 {
		t.Fatalf("expected single chunk, got %v", got)
	}
	if got := chunk([]int{}, 2); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
