package sqlite

import (
	"context"

	"github.com/lijunde/rose/pkg/storage"
)

const insertTargetQuery = `
INSERT INTO targets (target_name, compress_scheme, command_format, command_rc, source_edit_format)
VALUES (?, ?, ?, ?, ?)
`

const insertSourceQuery = `
INSERT INTO sources (target_name, source_name, checksum)
VALUES (?, ?, ?)
`

func (c *Client) InsertTarget(ctx context.Context, target *storage.TargetRecord) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint: errcheck

	_, err = tx.ExecContext(ctx, insertTargetQuery,
		target.Name,
		target.CompressScheme,
		target.CommandFormat,
		target.CommandRC,
		target.SourceEditFormat,
	)
	if err != nil {
		return err
	}

	for _, source := range target.Sources {
		_, err = tx.ExecContext(ctx, insertSourceQuery,
			target.Name, source.Name, source.Checksum)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
