package sqlite

import "context"

var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS targets (
		target_name TEXT,
		compress_scheme TEXT,
		command_format TEXT,
		command_rc INT,
		source_edit_format TEXT,
		PRIMARY KEY(target_name)
	)`,
	`CREATE TABLE IF NOT EXISTS sources (
		target_name TEXT,
		source_name TEXT,
		checksum TEXT,
		UNIQUE(target_name, checksum)
	)`,
}

func (c *Client) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStmts {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
