// Package clickhouse persists lifecycle events to ClickHouse using the
// official Go client.
package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/Itexoft/procvd/internal/model"
)

// Sink sends events to ClickHouse using the official ClickHouse Go client.
type Sink struct {
	conn  driver.Conn
	table string
}

// New connects to the ClickHouse server at addr and ensures table exists.
func New(addr, table string) (*Sink, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: "default",
			Password: "",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	s := &Sink{conn: conn, table: table}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		group_name String,
		process_name String,
		kind String,
		occurred_at DateTime64(3),
		exit_code Nullable(Int32),
		message String
	) ENGINE = MergeTree() ORDER BY occurred_at`, s.table)
	return s.conn.Exec(ctx, stmt)
}

func (s *Sink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *Sink) Send(ctx context.Context, e model.OutputEvent) error {
	query := fmt.Sprintf(`INSERT INTO %s (group_name, process_name, kind, occurred_at, exit_code, message) VALUES (?, ?, ?, ?, ?, ?)`, s.table)

	var exitCode *int32
	if e.ExitCode != nil {
		v := int32(*e.ExitCode)
		exitCode = &v
	}

	if err := s.conn.Exec(ctx, query,
		e.Key.Group,
		e.Key.Process,
		e.Kind.String(),
		e.Timestamp,
		exitCode,
		e.Message,
	); err != nil {
		return fmt.Errorf("failed to insert event into ClickHouse: %w", err)
	}

	return nil
}
