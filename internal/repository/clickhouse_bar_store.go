package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgch "FinSignal/pkg/clickhouse"
	applogger "FinSignal/pkg/logger"
)

const barsTable = "bars"

const insertChunk = 2000

// CHBarStore keeps bars in ClickHouse and serves them back as MarketData.
type CHBarStore struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
	now   func() time.Time
	l     *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{
		ch:    ch,
		db:    ch.DB(),
		table: ch.Database() + "." + barsTable,
		now:   time.Now,
	}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

// SetClock overrides the time source used to resolve periods.
func (s *CHBarStore) SetClock(now func() time.Time) { s.now = now }

// SchemaStatements returns the DDL for database and bars table.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			symbol LowCardinality(String),
			interval LowCardinality(String),
			bucket DateTime64(3, 'UTC'),
			open Float64,
			high Float64,
			low Float64,
			close Float64,
			volume Float64,
			ingested_at DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(ingested_at)
		ORDER BY (symbol, interval, bucket)`, database, barsTable),
	}
}

func (s *CHBarStore) Init(ctx context.Context) error {
	return s.ch.Exec(ctx, SchemaStatements(s.ch.Database())...)
}

func (s *CHBarStore) Health(ctx context.Context) error { return s.ch.Health(ctx) }

func (s *CHBarStore) Close() error { return s.ch.Close() }

func (s *CHBarStore) StoreBars(ctx context.Context, symbol string, interval domrepo.Interval, bars []models.Bar) error {
	for start := 0; start < len(bars); start += insertChunk {
		end := start + insertChunk
		if end > len(bars) {
			end = len(bars)
		}
		q, args := insertBarsQuery(s.table, symbol, string(interval), bars[start:end])
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_bars error",
					applogger.String("table", s.table),
					applogger.String("symbol", symbol),
					applogger.Int("rows", end-start),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store bars: %w", err)
		}
	}
	return nil
}

func insertBarsQuery(table, symbol, interval string, bars []models.Bar) (string, []interface{}) {
	values := make([]string, 0, len(bars))
	args := make([]interface{}, 0, len(bars)*8)
	for _, b := range bars {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, symbol, interval, b.Time.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	q := fmt.Sprintf("INSERT INTO %s (symbol, interval, bucket, open, high, low, close, volume) VALUES %s",
		table, strings.Join(values, ","))
	return q, args
}

func (s *CHBarStore) GetHistoricalBars(ctx context.Context, symbol string, period domrepo.Period, interval domrepo.Interval) ([]models.Bar, error) {
	start := time.Now()
	from := period.Start(s.now())
	q := fmt.Sprintf(`
		SELECT bucket, open, high, low, close, volume
		FROM %s FINAL
		WHERE symbol = ? AND interval = ? AND bucket >= ?
		ORDER BY bucket ASC
	`, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(interval), from)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_bars query error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.String("interval", string(interval)),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get bars %s: %v: %w", symbol, err, models.ErrDataUnavailable)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 256)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("get bars %s: no rows: %w", symbol, models.ErrDataUnavailable)
	}
	if s.l != nil {
		s.l.Debug("clickhouse get_bars ok",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(interval)),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// GetSymbolInfo derives info from the last two stored daily bars.
func (s *CHBarStore) GetSymbolInfo(ctx context.Context, symbol string) (models.SymbolInfo, error) {
	q := fmt.Sprintf(`
		SELECT close, volume
		FROM %s FINAL
		WHERE symbol = ? AND interval = ?
		ORDER BY bucket DESC
		LIMIT 2
	`, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(domrepo.Interval1d))
	if err != nil {
		return models.SymbolInfo{}, fmt.Errorf("symbol info %s: %w", symbol, err)
	}
	defer rows.Close()

	var closes, vols []float64
	for rows.Next() {
		var c, v float64
		if err := rows.Scan(&c, &v); err != nil {
			return models.SymbolInfo{}, fmt.Errorf("scan symbol info: %w", err)
		}
		closes = append(closes, c)
		vols = append(vols, v)
	}
	if err := rows.Err(); err != nil {
		return models.SymbolInfo{}, fmt.Errorf("rows: %w", err)
	}
	if len(closes) == 0 {
		return models.SymbolInfo{}, fmt.Errorf("symbol info %s: %w", symbol, models.ErrDataUnavailable)
	}

	info := models.PlaceholderSymbolInfo(symbol)
	info.CurrentPrice = closes[0]
	info.Volume = vols[0]
	if len(closes) == 2 && closes[1] > 0 {
		info.Change = closes[0] - closes[1]
		info.ChangePercent = info.Change / closes[1] * 100
	}
	return info, nil
}

var (
	_ domrepo.MarketData = (*CHBarStore)(nil)
	_ domrepo.BarStore   = (*CHBarStore)(nil)
)
