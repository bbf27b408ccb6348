package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"fcf_analysis/pkg/core/fcf"
	"fcf_analysis/pkg/core/valuation"
	"fcf_analysis/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Load when no result is stored for a ticker.
var ErrNotFound = errors.New("no stored result")

// Record is the persisted outcome of one company run.
type Record struct {
	Ticker     string                `json:"ticker"`
	RunID      uuid.UUID             `json:"run_id"`
	Company    models.CompanyContext `json:"company"`
	FCF        models.FCFResultSet   `json:"fcf"`
	Summary    []fcf.Summary         `json:"summary,omitempty"`
	Valuations *valuation.Suite      `json:"valuations,omitempty"`
	Score      float64               `json:"score"`
	Warnings   []string              `json:"warnings,omitempty"`
	Errors     []string              `json:"errors,omitempty"`
	SavedAt    time.Time             `json:"saved_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS fcf_results (
	ticker      TEXT PRIMARY KEY,
	run_id      UUID NOT NULL,
	score       DOUBLE PRECISION NOT NULL,
	result_json JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
)`

const upsertResult = `
INSERT INTO fcf_results (ticker, run_id, score, result_json, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (ticker)
DO UPDATE SET
	run_id = EXCLUDED.run_id,
	score = EXCLUDED.score,
	result_json = EXCLUDED.result_json,
	updated_at = EXCLUDED.updated_at`

const selectResult = `SELECT result_json FROM fcf_results WHERE ticker = $1`

// ResultRepo stores one Record per ticker. With a DB it upserts into Postgres;
// without one it writes <fileDir>/<TICKER>.json.
type ResultRepo struct {
	db      DB
	fileDir string
	logger  zerolog.Logger
}

// NewResultRepo builds a repository. Pass a nil db for the file store.
func NewResultRepo(db DB, fileDir string, logger zerolog.Logger) *ResultRepo {
	if db == nil && fileDir == "" {
		fileDir = filepath.Join(".cache", "fcf_results")
	}
	return &ResultRepo{db: db, fileDir: fileDir, logger: logger.With().Str("component", "store").Logger()}
}

// EnsureSchema creates the results table. It is a no-op for the file store.
func (r *ResultRepo) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Save upserts the record under its ticker.
func (r *ResultRepo) Save(ctx context.Context, rec *Record) error {
	ticker := normalizeTicker(rec.Ticker)
	if ticker == "" {
		return errors.New("save result: record has no ticker")
	}
	rec.Ticker = ticker
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if r.db != nil {
		if _, err := r.db.Exec(ctx, upsertResult, ticker, rec.RunID, rec.Score, data, rec.SavedAt); err != nil {
			return fmt.Errorf("save result %s: %w", ticker, err)
		}
		r.logger.Info().Str("ticker", ticker).Msg("result saved to database")
		return nil
	}

	if err := writeFileAtomic(r.path(ticker), data); err != nil {
		return fmt.Errorf("save result %s: %w", ticker, err)
	}
	r.logger.Info().Str("ticker", ticker).Str("dir", r.fileDir).Msg("result saved to file")
	return nil
}

// Load returns the stored record for ticker or ErrNotFound.
func (r *ResultRepo) Load(ctx context.Context, ticker string) (*Record, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, ErrNotFound
	}

	var data []byte
	if r.db != nil {
		err := r.db.QueryRow(ctx, selectResult, ticker).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load result %s: %w", ticker, err)
		}
	} else {
		var err error
		data, err = os.ReadFile(r.path(ticker))
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load result %s: %w", ticker, err)
		}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal result %s: %w", ticker, err)
	}
	return &rec, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Z0-9.\-]`)

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

func (r *ResultRepo) path(ticker string) string {
	return filepath.Join(r.fileDir, unsafeFileChars.ReplaceAllString(ticker, "_")+".json")
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".result-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
