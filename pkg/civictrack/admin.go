package civictrack

import (
	"context"
	"fmt"
	"net/http"
)

// AdminListIssues returns every issue regardless of location. Admin only.
func (c *Client) AdminListIssues(ctx context.Context) ([]Issue, error) {
	var issues []Issue
	if err := c.doJSON(ctx, "admin list issues", http.MethodGet, "/api/admin/issues", nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// AdminDeleteIssue permanently removes an issue. Admin only.
func (c *Client) AdminDeleteIssue(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/admin/issues/%d", id)
	return c.doJSON(ctx, "admin delete issue", http.MethodDelete, path, nil, nil)
}
