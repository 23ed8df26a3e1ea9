package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fieldops/internal/domain/tickets"
	"fieldops/pkg/logger"
)

// Advisory lock class for ticket numbering, paired with the year.
const ticketSequenceLockClass = 4201

var _ tickets.Sequencer = (*TicketSequencer)(nil)

// TicketSequencer derives the next ticket sequence from the last
// stored number of the year. Callers holding the same year serialize
// on a transaction-scoped advisory lock, so the derived sequence stays
// unique even under concurrent creation.
type TicketSequencer struct {
	txManager *TxManager
}

func NewTicketSequencer(txManager *TxManager) *TicketSequencer {
	return &TicketSequencer{txManager: txManager}
}

// NextSequence returns the next free sequence for the year. Must be
// called inside the transaction that inserts the ticket; the advisory
// lock is released at commit or rollback.
func (s *TicketSequencer) NextSequence(ctx context.Context, year int) (int, error) {
	q := s.txManager.GetQuerier(ctx)

	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", ticketSequenceLockClass, year); err != nil {
		return 0, fmt.Errorf("acquire ticket sequence lock: %w", err)
	}

	var lastNumber string
	err := q.QueryRow(ctx,
		"SELECT number FROM tickets WHERE year = $1 ORDER BY id DESC LIMIT 1",
		year,
	).Scan(&lastNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load last ticket number: %w", err)
	}

	seq, err := tickets.ParseSequence(lastNumber)
	if err != nil {
		logger.Warn(ctx, "could not parse last ticket number, restarting sequence",
			"number", lastNumber, "year", year)
		return 1, nil
	}
	return seq + 1, nil
}
