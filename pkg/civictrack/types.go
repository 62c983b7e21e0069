package civictrack

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Issue lifecycle statuses as reported by the backend. Flagged is assigned
// server-side when an issue accumulates enough flags to be auto-hidden.
const (
	StatusReported   = "Reported"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusFlagged    = "Flagged"
)

// AssignableStatuses are the statuses an admin may set explicitly.
var AssignableStatuses = []string{StatusReported, StatusInProgress, StatusResolved}

// User is the backend identity record for the current account.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// IssueUser identifies the reporter of a non-anonymous issue.
type IssueUser struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// StatusLog is one entry in an issue's status history.
type StatusLog struct {
	Status    string     `json:"status"`
	Timestamp Timestamp  `json:"timestamp"`
	Admin     *IssueUser `json:"admin"`
}

// Issue is a reported civic issue as returned by the API.
type Issue struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Status      string      `json:"status"`
	CreatedAt   Timestamp   `json:"created_at"`
	User        *IssueUser  `json:"user"` // nil for anonymous reports
	Upvotes     int         `json:"upvotes"`
	Flags       int         `json:"flags"`
	Images      []string    `json:"images"`
	CanEdit     bool        `json:"can_edit"`
	Logs        []StatusLog `json:"logs"`
}

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success payload of the login endpoint.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// RegisterRequest carries profile data for the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is the success payload of the registration endpoint.
// Registration returns a token but no user record; the identity endpoint
// resolves it.
type RegisterResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// IssueFilter selects issues near a point. Radius is in kilometers; the
// server defaults it to 5 when zero. Category and Status are optional.
type IssueFilter struct {
	Lat      float64
	Lon      float64
	Radius   float64
	Category string
	Status   string
}

// Image is one attachment for a report.
type Image struct {
	Filename string
	Content  io.Reader
}

// ReportRequest describes a new issue. Images are optional; filenames must
// carry one of the extensions in allowedImageExts.
type ReportRequest struct {
	Title       string
	Description string
	Category    string
	Latitude    float64
	Longitude   float64
	Anonymous   bool
	Images      []Image
}

// UpdateIssueRequest carries a partial edit of an existing issue. Nil
// fields are left unchanged.
type UpdateIssueRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// Timestamp wraps time.Time to accept the backend's timestamp encoding.
// The server emits naive ISO 8601 without a zone suffix; RFC 3339 is also
// accepted for compatibility.
type Timestamp struct {
	time.Time
}

const naiveISO8601 = "2006-01-02T15:04:05"

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, naiveISO8601 + ".999999999", naiveISO8601} {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}
