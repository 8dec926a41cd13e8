package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lijunde/rose/pkg/storage"
)

const selectTargetQuery = `
SELECT compress_scheme, command_format, command_rc, source_edit_format
  FROM targets
 WHERE target_name = ?
`

const selectSourcesQuery = `
SELECT source_name, checksum
  FROM sources
 WHERE target_name = ?
`

func (c *Client) SelectTarget(ctx context.Context, targetName string) (*storage.TargetRecord, error) {
	target := storage.TargetRecord{Name: targetName}

	row := c.db.QueryRowContext(ctx, selectTargetQuery, targetName)

	err := row.Scan(
		&target.CompressScheme,
		&target.CommandFormat,
		&target.CommandRC,
		&target.SourceEditFormat,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotExist
		}

		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, selectSourcesQuery, targetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var source storage.SourceRecord

		if err := rows.Scan(&source.Name, &source.Checksum); err != nil {
			return nil, err
		}

		target.Sources = append(target.Sources, &source)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &target, nil
}
