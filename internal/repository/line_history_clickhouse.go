package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"PacePulse/internal/domain/models"
	domrepo "PacePulse/internal/domain/repository"
	pkgch "PacePulse/pkg/clickhouse"
)

const lineTicksTable = "pacepulse.line_ticks"

var lineTicksSchema = []string{
	`CREATE DATABASE IF NOT EXISTS pacepulse`,
	`CREATE TABLE IF NOT EXISTS pacepulse.line_ticks (
        ts        DateTime64(3),
        game_id   String,
        total     Float64,
        rate_flag String,
        event_id  String
    ) ENGINE = ReplacingMergeTree
    PARTITION BY toYYYYMMDD(ts)
    ORDER BY (game_id, ts, event_id)`,
}

// ClickHouseLineHistory implements LineHistoryStore backed by ClickHouse.
type ClickHouseLineHistory struct {
	client *pkgch.Client
	db     *sql.DB
}

// NewClickHouseLineHistory creates a ClickHouse-backed line history store.
func NewClickHouseLineHistory(client *pkgch.Client) domrepo.LineHistoryStore {
	return &ClickHouseLineHistory{client: client, db: client.DB()}
}

func (s *ClickHouseLineHistory) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, lineTicksSchema)
}

func (s *ClickHouseLineHistory) Store(ctx context.Context, t *models.LineTick) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, game_id, total, rate_flag, event_id) VALUES (?, ?, ?, ?, ?)", lineTicksTable)
	_, err := s.db.ExecContext(ctx, q,
		t.Timestamp,
		t.GameID,
		t.Total,
		t.RateOfChange,
		eventID(t),
	)
	return err
}

func (s *ClickHouseLineHistory) StoreBatch(ctx context.Context, ticks []*models.LineTick) error {
	if len(ticks) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips.
	const chunkSize = 2000
	for start := 0; start < len(ticks); start += chunkSize {
		end := start + chunkSize
		if end > len(ticks) {
			end = len(ticks)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*5)
		for _, t := range ticks[start:end] {
			if t == nil || t.GameID == "" || t.Timestamp.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?)")
			args = append(args, t.Timestamp, t.GameID, t.Total, t.RateOfChange, eventID(t))
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, game_id, total, rate_flag, event_id) VALUES %s", lineTicksTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseLineHistory) Query(ctx context.Context, gameID string, from, to time.Time, limit int) ([]*models.LineTick, error) {
	q := fmt.Sprintf("SELECT game_id, ts, total, rate_flag FROM %s WHERE game_id = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", lineTicksTable)
	rows, err := s.db.QueryContext(ctx, q, gameID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []*models.LineTick
	for rows.Next() {
		var t models.LineTick
		var rateFlag string
		if err := rows.Scan(&t.GameID, &t.Timestamp, &t.Total, &rateFlag); err != nil {
			return nil, err
		}
		t.RateOfChange = rateFlag
		ticks = append(ticks, &t)
	}
	return ticks, rows.Err()
}

func (s *ClickHouseLineHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseLineHistory) Close() error {
	return nil // Pool managed by pkg
}

// eventID derives an idempotency key from game and event time.
func eventID(t *models.LineTick) string {
	return fmt.Sprintf("%s-%d", t.GameID, t.Timestamp.UnixMilli())
}
