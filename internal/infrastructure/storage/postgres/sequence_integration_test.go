//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fieldops/internal/domain/tickets"
)

// Requires a reachable database:
//
//	TEST_DATABASE_DSN=postgres://... go test -tags integration ./internal/infrastructure/storage/postgres/
func TestTicketSequencerConcurrentCreations(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, DefaultPoolConfig(dsn))
	require.NoError(t, err)
	defer pool.Close()

	schema := fmt.Sprintf("seq_test_%d", time.Now().UnixNano())
	_, err = pool.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	defer pool.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")

	_, err = pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE %s.tickets (
			id     BIGSERIAL PRIMARY KEY,
			number TEXT      NOT NULL UNIQUE,
			year   INTEGER   NOT NULL
		)`, schema))
	require.NoError(t, err)

	txManager := NewTxManager(pool)
	sequencer := NewTicketSequencer(txManager)

	const workers = 16
	const year = 2031

	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var number string
			err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
				q := txManager.GetQuerier(ctx)
				if _, err := q.Exec(ctx, "SET LOCAL search_path TO "+schema); err != nil {
					return err
				}
				seq, err := sequencer.NextSequence(ctx, year)
				if err != nil {
					return err
				}
				number = tickets.FormatNumber(year, seq)
				_, err = q.Exec(ctx,
					"INSERT INTO tickets (number, year) VALUES ($1, $2)", number, year)
				return err
			})
			if err != nil {
				errs <- err
				return
			}
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got := make([]string, 0, workers)
	for n := range numbers {
		got = append(got, n)
	}
	sort.Strings(got)

	want := make([]string, 0, workers)
	for seq := 1; seq <= workers; seq++ {
		want = append(want, tickets.FormatNumber(year, seq))
	}
	require.Equal(t, want, got, "concurrent creations must yield a contiguous unique sequence")
}
