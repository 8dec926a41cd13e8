package sqlite

import (
	"context"
	"strings"
)

var cacheTables = []string{"targets", "sources"}

func (c *Client) DeleteTarget(ctx context.Context, targetName string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint: errcheck

	for _, table := range cacheTables {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE target_name = ?", targetName)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (c *Client) DeleteAllExcept(ctx context.Context, keep []string) error {
	var where string

	stmtArgs := make([]any, 0, len(keep))
	if len(keep) > 0 {
		stmtFragments := make([]string, 0, len(keep))
		for _, name := range keep {
			stmtFragments = append(stmtFragments, "target_name != ?")
			stmtArgs = append(stmtArgs, name)
		}

		where = " WHERE " + strings.Join(stmtFragments, " AND ")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint: errcheck

	for _, table := range cacheTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+where, stmtArgs...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
