package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get lineup log: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("pq: connection refused")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "lineup_game_logs_pkey"}
	if !isUniqueViolation(err) {
		t.Fatalf("expected true for 23505")
	}
	if !isUniqueViolation(fmt.Errorf("insert lineup log: %w", err)) {
		t.Fatalf("expected true for wrapped 23505")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("expected false for foreign key code")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pq.Error{Code: "23503", Constraint: "lineup_game_logs_game_id_fkey"}
	if !isForeignKeyViolation(err) {
		t.Fatalf("expected true for 23503")
	}
	if isForeignKeyViolation(&pq.Error{Code: "23505"}) {
		t.Fatalf("expected false for unique code")
	}
	if isForeignKeyViolation(fmt.Errorf("plain error")) {
		t.Fatalf("expected false for non-pq error")
	}
}
