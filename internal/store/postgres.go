package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
)

// Schema creates the tables PostgresStore needs.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL DEFAULT '',
	cash              BIGINT NOT NULL DEFAULT 0,
	fame              BIGINT NOT NULL DEFAULT 0,
	health            INTEGER NOT NULL DEFAULT 100,
	experience        BIGINT NOT NULL DEFAULT 0,
	skill_performance DOUBLE PRECISION NOT NULL DEFAULT 0,
	skill_vocals      DOUBLE PRECISION NOT NULL DEFAULT 0,
	skill_guitar      DOUBLE PRECISION NOT NULL DEFAULT 0,
	skill_songwriting DOUBLE PRECISION NOT NULL DEFAULT 0,
	charisma          DOUBLE PRECISION NOT NULL DEFAULT 0,
	looks             DOUBLE PRECISION NOT NULL DEFAULT 0,
	musicality        DOUBLE PRECISION NOT NULL DEFAULT 0,
	performance       DOUBLE PRECISION NOT NULL DEFAULT 0,
	version           BIGINT NOT NULL DEFAULT 1,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS settlements (
	event_id         TEXT PRIMARY KEY,
	player_id        TEXT NOT NULL REFERENCES profiles(id),
	cash_delta       BIGINT NOT NULL,
	fame_delta       BIGINT NOT NULL,
	health_delta     INTEGER NOT NULL,
	experience_delta BIGINT NOT NULL,
	settled_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const profileColumns = `id, name, cash, fame, health, experience,
	skill_performance, skill_vocals, skill_guitar, skill_songwriting,
	charisma, looks, musicality, performance, version`

// PostgresStore is a ProfileStore backed by PostgreSQL. Idempotency and
// clamping both happen inside one transaction.
type PostgresStore struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

// NewPostgresStore wraps an existing pool. A nil logger uses slog.Default.
func NewPostgresStore(db *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, log: logger}
}

// OpenPostgres connects to databaseURL and ensures the schema exists.
func OpenPostgres(ctx context.Context, databaseURL string, logger *slog.Logger) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	s := NewPostgresStore(db, logger)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) Get(ctx context.Context, playerID string) (Profile, error) {
	row := s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, playerID)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return p, err
}

func (s *PostgresStore) Put(ctx context.Context, ps economics.PlayerState) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO profiles (id, name, cash, fame, health, experience,
			skill_performance, skill_vocals, skill_guitar, skill_songwriting,
			charisma, looks, musicality, performance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			cash = EXCLUDED.cash,
			fame = EXCLUDED.fame,
			health = EXCLUDED.health,
			experience = EXCLUDED.experience,
			skill_performance = EXCLUDED.skill_performance,
			skill_vocals = EXCLUDED.skill_vocals,
			skill_guitar = EXCLUDED.skill_guitar,
			skill_songwriting = EXCLUDED.skill_songwriting,
			charisma = EXCLUDED.charisma,
			looks = EXCLUDED.looks,
			musicality = EXCLUDED.musicality,
			performance = EXCLUDED.performance,
			version = profiles.version + 1,
			updated_at = now()
		RETURNING `+profileColumns,
		ps.ID, ps.Name, ps.Cash, ps.Fame, ps.Health, ps.Experience,
		ps.Skills.Performance, ps.Skills.Vocals, ps.Skills.Guitar, ps.Skills.Songwriting,
		ps.Attributes.Charisma, ps.Attributes.Looks, ps.Attributes.Musicality, ps.Attributes.Performance)
	return scanProfile(row)
}

// ApplyDelta records the event and updates the profile in one transaction.
// The settlements insert is the idempotency guard; the update clamps health
// and attributes in SQL so concurrent settlements never lose a write.
func (s *PostgresStore) ApplyDelta(ctx context.Context, playerID, eventID string, d economics.Deltas) (Profile, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return Profile{}, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, playerID).Scan(&exists); err != nil {
		return Profile{}, err
	}
	if !exists {
		return Profile{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO settlements (event_id, player_id, cash_delta, fame_delta, health_delta, experience_delta)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING
	`, eventID, playerID, d.CashDelta, d.FameDelta, d.HealthDelta, d.ExperienceDelta)
	if err != nil {
		return Profile{}, err
	}
	if tag.RowsAffected() == 0 {
		s.log.Warn("settlement replay rejected", "event", eventID, "player", playerID)
		return Profile{}, fmt.Errorf("%w: %s", ErrAlreadySettled, eventID)
	}

	a := d.AttributeDeltas
	row := tx.QueryRow(ctx, `
		UPDATE profiles SET
			cash = cash + $2,
			fame = GREATEST(0, fame + $3),
			health = LEAST($11, GREATEST($10, health + $4)),
			experience = experience + $5,
			charisma = LEAST($12, GREATEST(0, charisma + $6)),
			looks = LEAST($12, GREATEST(0, looks + $7)),
			musicality = LEAST($12, GREATEST(0, musicality + $8)),
			performance = LEAST($12, GREATEST(0, performance + $9)),
			version = version + 1,
			updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		playerID, d.CashDelta, d.FameDelta, d.HealthDelta, d.ExperienceDelta,
		a.Charisma, a.Looks, a.Musicality, a.Performance,
		minHealth, maxHealth, economics.MaxAttribute)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return Profile{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Profile{}, err
	}
	s.log.Info("settlement applied", "event", eventID, "player", playerID,
		"cash_delta", d.CashDelta, "fame_delta", d.FameDelta, "version", p.Version)
	return p, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.Name, &p.Cash, &p.Fame, &p.Health, &p.Experience,
		&p.Skills.Performance, &p.Skills.Vocals, &p.Skills.Guitar, &p.Skills.Songwriting,
		&p.Attributes.Charisma, &p.Attributes.Looks, &p.Attributes.Musicality, &p.Attributes.Performance,
		&p.Version,
	)
	return p, err
}
