// Package sqlite is a storage implementation keeping the archive target
// cache in a SQLite database file in the working directory.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/lijunde/rose/pkg/storage"
)

// DBFileName is the name of the cache database file, relative to the
// directory the archive application runs in.
const DBFileName = ".rose-arch.db"

// Client is a sqlite storage client
type Client struct {
	db *sql.DB
}

var _ storage.Storer = (*Client)(nil)

// New opens the database file at path and creates the schema if it does
// not exist yet.
func New(ctx context.Context, path string) (*Client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	client := &Client{db: db}

	if err := client.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return client, nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}
