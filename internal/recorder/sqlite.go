package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ForexSentry/internal/model"
)

// SQLiteRecorder persists cycle history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc reads don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			usd_stance     TEXT,
			risk_regime    TEXT,
			notes          TEXT,
			events_total   INTEGER,
			events_dropped INTEGER,
			pairs_ok       INTEGER,
			pairs_failed   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS frame_indicators (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			pair        TEXT NOT NULL,
			tf          TEXT NOT NULL,
			ema20       TEXT,
			ema50       TEXT,
			rsi         TEXT,
			macd        TEXT,
			macd_signal TEXT,
			macd_hist   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_frame_ts ON frame_indicators(timestamp)`,

		`CREATE TABLE IF NOT EXISTS daily_levels (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			pair           TEXT NOT NULL,
			prev_day_high  TEXT,
			prev_day_low   TEXT,
			prev_day_close TEXT,
			pivot_pp       TEXT,
			pivot_r1       TEXT,
			pivot_r2       TEXT,
			pivot_r3       TEXT,
			pivot_s1       TEXT,
			pivot_s2       TEXT,
			pivot_s3       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_levels_ts ON daily_levels(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(timestamp, usd_stance, risk_regime, notes, events_total, events_dropped, pairs_ok, pairs_failed)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.USDStance, rec.RiskRegime, rec.Notes,
		rec.EventsTotal, rec.EventsDropped, rec.PairsOK, rec.PairsFailed,
	)
	return err
}

func (r *SQLiteRecorder) RecordSnapshot(snap *model.TechnicalSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := snap.BuiltAt.Unix()
	for _, fr := range snap.Frames {
		_, err := r.db.Exec(`INSERT INTO frame_indicators
			(timestamp, pair, tf, ema20, ema50, rsi, macd, macd_signal, macd_hist)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			now, snap.Pair, fr.Prefix,
			fr.Ind.EMA20, fr.Ind.EMA50, fr.Ind.RSI,
			fr.Ind.MACD, fr.Ind.MACDSignal, fr.Ind.MACDHist,
		)
		if err != nil {
			return err
		}
	}

	_, err := r.db.Exec(`INSERT INTO daily_levels
		(timestamp, pair, prev_day_high, prev_day_low, prev_day_close,
		 pivot_pp, pivot_r1, pivot_r2, pivot_r3, pivot_s1, pivot_s2, pivot_s3)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		now, snap.Pair, snap.PrevDayHigh, snap.PrevDayLow, snap.PrevDayClose,
		snap.Pivots.PP, snap.Pivots.R1, snap.Pivots.R2, snap.Pivots.R3,
		snap.Pivots.S1, snap.Pivots.S2, snap.Pivots.S3,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
