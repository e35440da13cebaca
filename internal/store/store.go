// Package store persists repeater state in PostgreSQL and supplies the
// window-filtered heard-station rows the report package aggregates.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/repeaterlab/mmdvm-dash/internal/domain"
)

// ErrNotFound reports that a single-row lookup matched nothing.
var ErrNotFound = errors.New("store: row not found")

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open opens a connection pool and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies the pool can still reach the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateSchema creates the tables and seed rows the repeater backend
// expects. Safe to run repeatedly.
func (s *Store) CreateSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS lastheard (
		id        BIGSERIAL PRIMARY KEY,
		callsign  VARCHAR(20),
		mode      VARCHAR(20),
		dgid      INTEGER,
		slot      SMALLINT,
		source    VARCHAR(3),
		duration  DOUBLE PRECISION,
		ber       DOUBLE PRECISION,
		ts        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_lastheard_ts ON lastheard(ts);
	CREATE INDEX IF NOT EXISTS idx_lastheard_callsign ON lastheard(callsign);

	CREATE TABLE IF NOT EXISTS status (
		id         SMALLINT PRIMARY KEY,
		mode       VARCHAR(20),
		callsign   VARCHAR(20),
		dgid       INTEGER,
		slot       SMALLINT,
		source     VARCHAR(3),
		active     BOOLEAN,
		ber        DOUBLE PRECISION,
		duration   DOUBLE PRECISION,
		updated_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS reflector (
		id         SMALLINT PRIMARY KEY,
		dstar      VARCHAR(64),
		dmr        VARCHAR(64),
		fusion     VARCHAR(64),
		updated_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS config_inbox (
		id           SMALLINT PRIMARY KEY,
		callsign     TEXT NOT NULL,
		module       TEXT NOT NULL,
		dmr_id       TEXT NOT NULL,
		duplex       TEXT NOT NULL,
		rxfreq       TEXT NOT NULL,
		txfreq       TEXT NOT NULL,
		latitude     TEXT NOT NULL,
		longitude    TEXT NOT NULL,
		height       TEXT,
		location     TEXT,
		description  TEXT,
		url          TEXT,
		reflector1   TEXT,
		ysf_suffix   TEXT,
		ysf_startup  TEXT,
		ysf_options  TEXT,
		dmr_address  TEXT,
		dmr_password TEXT,
		dmr_name     TEXT,
		bm_api_key   TEXT,
		is_new       TEXT NOT NULL DEFAULT 'IDLE',
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	seeds := `
	INSERT INTO status (id, mode, callsign, source, active, updated_at)
	VALUES (1, 'Idle', '', 'RF', FALSE, NOW())
	ON CONFLICT (id) DO NOTHING;

	INSERT INTO reflector (id, updated_at) VALUES (1, NOW())
	ON CONFLICT (id) DO NOTHING;
	`
	if _, err := s.pool.Exec(ctx, seeds); err != nil {
		return fmt.Errorf("seed rows: %w", err)
	}
	return nil
}

// StatusRow is the repeater's single current-transmission row.
type StatusRow struct {
	ID        int      `json:"id"`
	Mode      *string  `json:"mode"`
	Callsign  *string  `json:"callsign"`
	DGID      *int     `json:"dgid"`
	Slot      *int     `json:"slot"`
	Source    *string  `json:"source"`
	Active    bool     `json:"active"`
	BER       *float64 `json:"ber"`
	Duration  *float64 `json:"duration"`
	UpdatedAt string   `json:"updated_at"`
}

// Status returns the current status row, or ErrNotFound.
func (s *Store) Status(ctx context.Context) (*StatusRow, error) {
	var row StatusRow
	err := s.pool.QueryRow(ctx, `
		SELECT id, mode, callsign, dgid, slot, source, active, ber, duration,
		       to_char(updated_at, 'YYYY-MM-DD HH24:MI:SS')
		FROM status
		WHERE id = 1`,
	).Scan(&row.ID, &row.Mode, &row.Callsign, &row.DGID, &row.Slot, &row.Source,
		&row.Active, &row.BER, &row.Duration, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query status: %w", err)
	}
	return &row, nil
}

// LastHeard returns the most recent transmissions, newest first.
func (s *Store) LastHeard(ctx context.Context, limit int) ([]domain.HeardEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT callsign, mode, dgid, slot, source, duration, ber, ts
		FROM lastheard
		ORDER BY ts DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query lastheard: %w", err)
	}
	return scanHeard(rows)
}

// HeardSince returns all transmissions at or after the cutoff. The report
// layer receives these rows pre-filtered to its window.
func (s *Store) HeardSince(ctx context.Context, since time.Time) ([]domain.HeardEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT callsign, mode, dgid, slot, source, duration, ber, ts
		FROM lastheard
		WHERE ts >= $1
		ORDER BY ts ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("query heard since: %w", err)
	}
	return scanHeard(rows)
}

func scanHeard(rows pgx.Rows) ([]domain.HeardEvent, error) {
	defer rows.Close()

	var out []domain.HeardEvent
	for rows.Next() {
		var (
			ev       domain.HeardEvent
			callsign *string
			mode     *string
			source   *string
		)
		if err := rows.Scan(&callsign, &mode, &ev.DGID, &ev.Slot, &source,
			&ev.Duration, &ev.BER, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan heard row: %w", err)
		}
		if callsign != nil {
			ev.Callsign = *callsign
		}
		if mode != nil {
			ev.Mode = *mode
		}
		if source != nil {
			ev.Source = domain.Source(*source)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate heard rows: %w", err)
	}
	return out, nil
}

// InsertHeardBatch appends heard events in one round trip.
func (s *Store) InsertHeardBatch(ctx context.Context, events []domain.HeardEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(`
			INSERT INTO lastheard (callsign, mode, dgid, slot, source, duration, ber, ts)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ev.Callsign, ev.Mode, ev.DGID, ev.Slot, string(ev.Source), ev.Duration, ev.BER, ev.Timestamp)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert heard event: %w", err)
		}
	}
	return nil
}

// ReflectorRow is the single current-reflector-links row.
type ReflectorRow struct {
	DStar     *string `json:"dstar"`
	DMR       *string `json:"dmr"`
	Fusion    *string `json:"fusion"`
	UpdatedAt string  `json:"updated_at"`
}

// Reflector returns the reflector row, or ErrNotFound.
func (s *Store) Reflector(ctx context.Context) (*ReflectorRow, error) {
	var row ReflectorRow
	err := s.pool.QueryRow(ctx, `
		SELECT dstar, dmr, fusion, to_char(updated_at, 'YYYY-MM-DD HH24:MI:SS')
		FROM reflector
		WHERE id = 1`,
	).Scan(&row.DStar, &row.DMR, &row.Fusion, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query reflector: %w", err)
	}
	return &row, nil
}

// LocalConfigRow is the public subset of the stored configuration.
type LocalConfigRow struct {
	Callsign    *string `json:"callsign"`
	Duplex      *string `json:"duplex"`
	RXFreq      *string `json:"rxfreq"`
	TXFreq      *string `json:"txfreq"`
	Latitude    *string `json:"latitude"`
	Longitude   *string `json:"longitude"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	UpdatedAt   string  `json:"updated_at"`
}

// LocalConfig returns the public configuration fields, or ErrNotFound.
func (s *Store) LocalConfig(ctx context.Context) (*LocalConfigRow, error) {
	var row LocalConfigRow
	err := s.pool.QueryRow(ctx, `
		SELECT callsign, duplex, rxfreq, txfreq, latitude, longitude, location,
		       description, to_char(updated_at, 'YYYY-MM-DD HH24:MI:SS')
		FROM config_inbox
		LIMIT 1`,
	).Scan(&row.Callsign, &row.Duplex, &row.RXFreq, &row.TXFreq, &row.Latitude,
		&row.Longitude, &row.Location, &row.Description, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query local config: %w", err)
	}
	return &row, nil
}

// ConfigInboxRow is the full configuration row as the setup page expects
// it, field names included.
type ConfigInboxRow struct {
	Callsign     *string `json:"Callsign"`
	Module       *string `json:"Module"`
	ID           *string `json:"Id"`
	Duplex       *string `json:"Duplex"`
	RXFrequency  *string `json:"RXFrequency"`
	TXFrequency  *string `json:"TXFrequency"`
	Latitude     *string `json:"Latitude"`
	Longitude    *string `json:"Longitude"`
	Height       *string `json:"Height"`
	Location     *string `json:"Location"`
	Description  *string `json:"Description"`
	URL          *string `json:"URL"`
	RawReflector *string `json:"-"`
	Suffix       *string `json:"Suffix"`
	Startup      *string `json:"Startup"`
	Options      *string `json:"Options"`
	Address      *string `json:"Address"`
	Password     *string `json:"Password"`
	Name         *string `json:"Name"`
	BmApiKey     *string `json:"BmApiKey"`
	IsNew        *string `json:"is_new"`
	UpdatedAt    string  `json:"updated_at"`

	// Derived from RawReflector by the API layer.
	Reflector       string `json:"reflector1"`
	ReflectorModule string `json:"reflector_module"`
}

// ConfigInbox returns the full configuration row, or ErrNotFound.
func (s *Store) ConfigInbox(ctx context.Context) (*ConfigInboxRow, error) {
	var row ConfigInboxRow
	err := s.pool.QueryRow(ctx, `
		SELECT callsign, module, dmr_id, duplex, rxfreq, txfreq, latitude,
		       longitude, height, location, description, url, reflector1,
		       ysf_suffix, ysf_startup, ysf_options, dmr_address, dmr_password,
		       dmr_name, bm_api_key, is_new,
		       to_char(updated_at, 'YYYY-MM-DD HH24:MI:SS')
		FROM config_inbox
		WHERE id = 1`,
	).Scan(&row.Callsign, &row.Module, &row.ID, &row.Duplex, &row.RXFrequency,
		&row.TXFrequency, &row.Latitude, &row.Longitude, &row.Height,
		&row.Location, &row.Description, &row.URL, &row.RawReflector,
		&row.Suffix, &row.Startup, &row.Options, &row.Address, &row.Password,
		&row.Name, &row.BmApiKey, &row.IsNew, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query config inbox: %w", err)
	}
	return &row, nil
}

// DeviceCredentials returns the stored DMR id and BrandMeister API key.
// Either may be empty when unconfigured.
func (s *Store) DeviceCredentials(ctx context.Context) (deviceID, apiKey string, err error) {
	var id, key *string
	qerr := s.pool.QueryRow(ctx,
		`SELECT dmr_id, bm_api_key FROM config_inbox WHERE id = 1`,
	).Scan(&id, &key)
	if errors.Is(qerr, pgx.ErrNoRows) {
		return "", "", nil
	}
	if qerr != nil {
		return "", "", fmt.Errorf("query device credentials: %w", qerr)
	}
	if id != nil {
		deviceID = *id
	}
	if key != nil {
		apiKey = *key
	}
	return deviceID, apiKey, nil
}

// ConfigUpdate carries a validated configuration submission.
type ConfigUpdate struct {
	Callsign    string
	Module      string
	DMRID       int
	Duplex      int
	RXFreq      int
	TXFreq      int
	Latitude    float64
	Longitude   float64
	Height      *int
	Location    *string
	Description *string
	URL         *string
	Reflector   string // base and module recombined, e.g. "DCS001 R"
	Suffix      *string
	Startup     *string
	Options     *string
	Address     *string
	Password    *string
	Name        *string
	BmApiKey    *string
}

// SaveConfig upserts the single configuration row (id=1) and marks it as
// freshly written by the GUI so the repeater backend picks it up.
func (s *Store) SaveConfig(ctx context.Context, u ConfigUpdate) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO config_inbox (
			id, callsign, module, dmr_id, duplex, rxfreq, txfreq,
			latitude, longitude, height, location, description, url,
			reflector1, ysf_suffix, ysf_startup, ysf_options,
			dmr_address, dmr_password, dmr_name, bm_api_key, is_new
		) VALUES (
			1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, 'GUI'
		)
		ON CONFLICT (id) DO UPDATE SET
			callsign = EXCLUDED.callsign,
			module = EXCLUDED.module,
			dmr_id = EXCLUDED.dmr_id,
			duplex = EXCLUDED.duplex,
			rxfreq = EXCLUDED.rxfreq,
			txfreq = EXCLUDED.txfreq,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			height = EXCLUDED.height,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			url = EXCLUDED.url,
			reflector1 = EXCLUDED.reflector1,
			ysf_suffix = EXCLUDED.ysf_suffix,
			ysf_startup = EXCLUDED.ysf_startup,
			ysf_options = EXCLUDED.ysf_options,
			dmr_address = EXCLUDED.dmr_address,
			dmr_password = EXCLUDED.dmr_password,
			dmr_name = EXCLUDED.dmr_name,
			bm_api_key = EXCLUDED.bm_api_key,
			is_new = 'GUI',
			updated_at = NOW()`,
		u.Callsign, u.Module, strconv.Itoa(u.DMRID), strconv.Itoa(u.Duplex),
		strconv.Itoa(u.RXFreq), strconv.Itoa(u.TXFreq),
		strconv.FormatFloat(u.Latitude, 'f', -1, 64),
		strconv.FormatFloat(u.Longitude, 'f', -1, 64),
		heightText(u.Height), u.Location, u.Description, u.URL,
		u.Reflector, u.Suffix, u.Startup, u.Options,
		u.Address, u.Password, u.Name, u.BmApiKey)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func heightText(h *int) *string {
	if h == nil {
		return nil
	}
	s := strconv.Itoa(*h)
	return &s
}
