package loader

import (
	"context"
	"database/sql"
	"errors"

	"github.com/beltran/gohive"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/go-data-exporter/excel/internal/config"
	"github.com/go-data-exporter/excel/scanner"
	"github.com/go-data-exporter/excel/source"
)

// query reads rows completely so the connection can be released.
func query(rows scanner.Rows) (source.Source, error) {
	p := source.Query(rows)
	if _, err := p.Data(); err != nil {
		return nil, err
	}
	return source.FromProvider(p), nil
}

func withTimeout(ctx context.Context, cfg config.SourceConfig) (context.Context, context.CancelFunc) {
	if cfg.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// loadSQL runs the query through lib/pq ("postgres") or modernc.org/sqlite
// ("sqlite").
func loadSQL(ctx context.Context, cfg config.SourceConfig) (src source.Source, err error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	rows, closeRows, err := scanner.QuerySQL(ctx, db, cfg.Driver, cfg.Query)
	if err != nil {
		return nil, err
	}
	defer closeRows()
	return query(rows)
}

func loadHive(ctx context.Context, cfg config.SourceConfig) (source.Source, error) {
	conf := gohive.NewConnectConfiguration()
	conf.Username = cfg.Username
	conf.Password = cfg.Password
	conf.Database = cfg.Database
	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	conn, err := gohive.Connect(cfg.Host, cfg.Port, cfg.Auth, conf)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	cursor := conn.Cursor()
	defer cursor.Close()

	cursor.Exec(ctx, cfg.Query)
	if cursor.Err != nil {
		return nil, cursor.Err
	}
	return query(scanner.FromHiveCursor(ctx, cursor))
}
