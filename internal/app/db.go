package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/nil-marketplace/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 10
	dbConnMaxLifetime = 30 * time.Minute
	dbPingTimeout     = 5 * time.Second

	maxTracedQueryLength = 512
)

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	queryLiteralRegex    = regexp.MustCompile(`'(?:[^']|'')*'`)
)

// openDB connects through otelsqlx so every query becomes a child span.
func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	target := parseDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", target.dsn,
		otelsql.WithAttributes(target.attributes()...),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres host=%s db=%s: %w", target.host, target.name, err)
	}

	return db, nil
}

type dbTarget struct {
	dsn  string
	name string
	host string
}

func (t dbTarget) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("db.system", "postgresql")}
	if t.name != "" {
		attrs = append(attrs, attribute.String("db.name", t.name))
	}
	if t.host != "" {
		attrs = append(attrs, attribute.String("server.address", t.host))
	}
	return attrs
}

// parseDSN accepts both URL and key=value connection strings. For URLs it adds
// lib/pq's disable_prepared_binary_result unless the caller set it explicitly.
func parseDSN(raw string, disablePreparedBinaryResult bool) dbTarget {
	raw = strings.TrimSpace(raw)
	target := dbTarget{dsn: raw}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		target.name = strings.TrimPrefix(parsed.Path, "/")
		target.host = parsed.Hostname()
		if disablePreparedBinaryResult {
			query := parsed.Query()
			if query.Get("disable_prepared_binary_result") == "" {
				query.Set("disable_prepared_binary_result", "yes")
				parsed.RawQuery = query.Encode()
				target.dsn = parsed.String()
			}
		}
		return target
	}

	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "dbname":
			target.name = value
		case "host":
			target.host = value
		}
	}
	return target
}

// formatDBQueryForTrace collapses whitespace and masks string literals so seed
// and migration statements do not leak athlete contact data into spans.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = queryLiteralRegex.ReplaceAllString(normalized, "'?'")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
