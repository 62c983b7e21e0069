package civictrack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// allowedImageExts mirrors the upload types the server accepts. Anything
// else is rejected client-side before the upload starts.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ListIssues returns the issues within the filter's radius of the given
// point, optionally narrowed by category and status. Works without a token;
// authenticated callers additionally get per-issue edit permissions.
func (c *Client) ListIssues(ctx context.Context, filter IssueFilter) ([]Issue, error) {
	q := url.Values{}
	q.Set("lat", formatCoord(filter.Lat))
	q.Set("lon", formatCoord(filter.Lon))
	if filter.Radius > 0 {
		q.Set("radius", strconv.FormatFloat(filter.Radius, 'f', -1, 64))
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}

	var issues []Issue
	if err := c.doJSON(ctx, "list issues", http.MethodGet, "/api/issues"+encodeQuery(q), nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// ReportIssue creates a new issue with optional image attachments. The
// request is a multipart form because of the file parts.
func (c *Client) ReportIssue(ctx context.Context, req ReportRequest) (*Issue, error) {
	const op = "report issue"

	for _, img := range req.Images {
		ext := strings.ToLower(filepath.Ext(img.Filename))
		if !allowedImageExts[ext] {
			return nil, wrapError(op, fmt.Errorf("unsupported image type %q (want png, jpg, jpeg, or gif)", img.Filename))
		}
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":        req.Title,
		"description":  req.Description,
		"category":     req.Category,
		"latitude":     formatCoord(req.Latitude),
		"longitude":    formatCoord(req.Longitude),
		"is_anonymous": strconv.FormatBool(req.Anonymous),
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, wrapError(op, fmt.Errorf("write field %s: %w", name, err))
		}
	}
	for _, img := range req.Images {
		part, err := form.CreateFormFile("images", filepath.Base(img.Filename))
		if err != nil {
			return nil, wrapError(op, fmt.Errorf("create file part: %w", err))
		}
		if _, err := io.Copy(part, img.Content); err != nil {
			return nil, wrapError(op, fmt.Errorf("copy image %s: %w", img.Filename, err))
		}
	}
	if err := form.Close(); err != nil {
		return nil, wrapError(op, fmt.Errorf("finish form: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/issues", &buf)
	if err != nil {
		return nil, wrapError(op, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	var issue Issue
	if err := c.send(httpReq, op, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue applies a partial edit to an issue the caller owns (admins
// may edit any issue).
func (c *Client) UpdateIssue(ctx context.Context, id int, req UpdateIssueRequest) (*Issue, error) {
	var issue Issue
	path := fmt.Sprintf("/api/issues/%d", id)
	if err := c.doJSON(ctx, "update issue", http.MethodPut, path, req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssueStatus transitions an issue's status. Admin only; the server
// records the transition in the issue's status log.
func (c *Client) UpdateIssueStatus(ctx context.Context, id int, status string) (*Issue, error) {
	body := map[string]string{"status": status}
	var issue Issue
	path := fmt.Sprintf("/api/issues/%d/status", id)
	if err := c.doJSON(ctx, "update status", http.MethodPut, path, body, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpvoteIssue increments an issue's upvote count and returns the new total.
func (c *Client) UpvoteIssue(ctx context.Context, id int) (int, error) {
	var resp struct {
		Upvotes int `json:"upvotes"`
	}
	path := fmt.Sprintf("/api/issues/%d/upvote", id)
	if err := c.doJSON(ctx, "upvote issue", http.MethodPost, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Upvotes, nil
}

// FlagIssue reports an issue as inappropriate and returns the new flag
// count. Issues past the server's flag threshold are auto-hidden.
func (c *Client) FlagIssue(ctx context.Context, id int) (int, error) {
	var resp struct {
		Flags int `json:"flags"`
	}
	path := fmt.Sprintf("/api/issues/%d/flag", id)
	if err := c.doJSON(ctx, "flag issue", http.MethodPost, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Flags, nil
}

// formatCoord renders a coordinate with full float precision.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
