package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samdwyer/duelsim/internal/game"
)

const uniqueViolation = "23505"

// PostgresStore keeps challenges in the challenges table as JSONB documents.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects to PostgreSQL. maxConns of 0 keeps the pgxpool
// default.
func NewPostgresStore(ctx context.Context, dsn string, maxConns int32, logger *slog.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Create inserts a new challenge.
func (s *PostgresStore) Create(ctx context.Context, c *game.Challenge) error {
	state, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding challenge %s: %w", c.ID, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO challenges (id, player_id, round, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.PlayerID, c.Round, state, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrExists, c.ID)
		}
		return fmt.Errorf("inserting challenge %s: %w", c.ID, err)
	}
	return nil
}

// Get loads a challenge.
func (s *PostgresStore) Get(ctx context.Context, id string) (*game.Challenge, error) {
	return scanChallenge(id, s.pool.QueryRow(ctx, `SELECT state FROM challenges WHERE id = $1`, id))
}

// Update locks the row, applies fn and writes the result in one transaction.
func (s *PostgresStore) Update(ctx context.Context, id string, fn func(*game.Challenge) error) (*game.Challenge, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction for challenge %s: %w", id, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.logger.Error("rollback failed", "challenge", id, "error", err)
		}
	}()

	c, err := scanChallenge(id, tx.QueryRow(ctx, `SELECT state FROM challenges WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	c.ID = id

	state, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding challenge %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE challenges SET round = $2, state = $3, updated_at = $4 WHERE id = $1`,
		id, c.Round, state, c.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("updating challenge %s: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction for challenge %s: %w", id, err)
	}
	return c, nil
}

func scanChallenge(id string, row pgx.Row) (*game.Challenge, error) {
	var state []byte
	if err := row.Scan(&state); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("querying challenge %s: %w", id, err)
	}
	var c game.Challenge
	if err := json.Unmarshal(state, &c); err != nil {
		return nil, fmt.Errorf("decoding challenge %s: %w", id, err)
	}
	return &c, nil
}

var _ game.ChallengeStore = (*PostgresStore)(nil)
