package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/a-h/fluenturl/urlbuilder"
	"github.com/rqlite/gorqlite"
)

// Open connects to rqlite. If log is nil, slog.Default() is used.
func Open(log *slog.Logger, u URL) (conn *gorqlite.Connection, err error) {
	if log == nil {
		log = slog.Default()
	}
	ub, err := u.dataSource()
	if err != nil {
		return nil, err
	}
	log.Info("connecting to rqlite", slog.Any("url", ub))
	conn, err = gorqlite.Open(ub.String())
	if err != nil {
		return nil, fmt.Errorf("db: failed to open connection: %w", err)
	}
	return conn, nil
}

func New(conn *gorqlite.Connection) *Queries {
	return &Queries{
		conn: conn,
		now:  time.Now,
	}
}

// Queries stores named endpoint URLs.
type Queries struct {
	conn *gorqlite.Connection
	now  func() time.Time
}

type Endpoint struct {
	Name        string
	URL         *urlbuilder.URLBuilder
	LastUpdated time.Time
}

type EndpointUpsertArgs struct {
	Name string
	URL  *urlbuilder.URLBuilder
}

// EndpointUpsert stores the absolute form of the URL under the given name,
// replacing any existing endpoint with that name.
func (q *Queries) EndpointUpsert(ctx context.Context, args EndpointUpsertArgs) (err error) {
	if args.Name == "" {
		return fmt.Errorf("db: endpoint name is required")
	}
	if args.URL == nil {
		return fmt.Errorf("db: endpoint %q has no URL", args.Name)
	}
	_, err = q.conn.WriteOneParameterizedContext(ctx, gorqlite.ParameterizedStatement{
		Query:     `insert or replace into endpoint (name, url, last_updated) values (?, ?, ?)`,
		Arguments: []any{args.Name, args.URL.String(), q.now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("db: failed to upsert endpoint: %w", err)
	}
	return nil
}

// EndpointSelect returns the named endpoint. ok is false if it does not exist.
func (q *Queries) EndpointSelect(ctx context.Context, name string) (e Endpoint, ok bool, err error) {
	result, err := q.conn.QueryOneParameterizedContext(ctx, gorqlite.ParameterizedStatement{
		Query:     `select name, url, last_updated from endpoint where name = ?`,
		Arguments: []any{name},
	})
	if err != nil {
		return e, false, fmt.Errorf("db: failed to select endpoint: %w", err)
	}
	for result.Next() {
		if e, err = scanEndpoint(&result); err != nil {
			return e, false, err
		}
		ok = true
	}
	return e, ok, nil
}

func (q *Queries) EndpointList(ctx context.Context) (endpoints []Endpoint, err error) {
	result, err := q.conn.QueryOneParameterizedContext(ctx, gorqlite.ParameterizedStatement{
		Query: `select name, url, last_updated from endpoint order by name`,
	})
	if err != nil {
		return endpoints, fmt.Errorf("db: failed to list endpoints: %w", err)
	}
	for result.Next() {
		e, err := scanEndpoint(&result)
		if err != nil {
			return endpoints, err
		}
		endpoints = append(endpoints, e)
	}
	return endpoints, nil
}

func (q *Queries) EndpointDelete(ctx context.Context, name string) (err error) {
	_, err = q.conn.WriteOneParameterizedContext(ctx, gorqlite.ParameterizedStatement{
		Query:     `delete from endpoint where name = ?`,
		Arguments: []any{name},
	})
	if err != nil {
		return fmt.Errorf("db: failed to delete endpoint: %w", err)
	}
	return nil
}

func scanEndpoint(result *gorqlite.QueryResult) (e Endpoint, err error) {
	var rawURL string
	if err = result.Scan(&e.Name, &rawURL, &e.LastUpdated); err != nil {
		return e, fmt.Errorf("db: failed to scan endpoint: %w", err)
	}
	if e.URL, err = urlbuilder.Parse(rawURL); err != nil {
		return e, fmt.Errorf("db: endpoint %q has an invalid URL: %w", e.Name, err)
	}
	return e, nil
}
