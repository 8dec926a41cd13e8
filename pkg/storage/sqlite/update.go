package sqlite

import "context"

const updateCommandRCQuery = `
UPDATE targets
   SET command_rc = ?
 WHERE target_name = ?
`

func (c *Client) UpdateCommandRC(ctx context.Context, targetName string, commandRC int) error {
	_, err := c.db.ExecContext(ctx, updateCommandRCQuery, commandRC, targetName)
	return err
}
