package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/mtlprog/reliefsync/internal/domain"
)

// Outcome is the result of an assignment operation that did not fail.
// Missing targets and duplicate assignments are outcomes, not errors.
type Outcome string

const (
	OutcomeCreated         Outcome = "CREATED"
	OutcomeAlreadyAssigned Outcome = "ALREADY_ASSIGNED"
	OutcomeUpdated         Outcome = "UPDATED"
	OutcomeUnchanged       Outcome = "UNCHANGED"
	OutcomeNotFound        Outcome = "NOT_FOUND"
)

// Changed reports whether the operation wrote anything.
func (o Outcome) Changed() bool {
	return o == OutcomeCreated || o == OutcomeUpdated
}

// Result describes what an assignment operation did.
type Result struct {
	Outcome    Outcome
	Assignment *domain.Assignment // the row created, updated or already present
	Task       *domain.TaskRef    // task state after the operation
	Cancelled  int                // rows cancelled by a bulk cancel
	Missing    string             // what was not found: "task", "assignment" or "volunteer"
}

func notFound(what string) Result {
	return Result{Outcome: OutcomeNotFound, Missing: what}
}

// rollback is deferred after Begin; once the transaction is committed it is a no-op.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Error("failed to rollback transaction", "error", err)
	}
}
