// Package provider implements the logical client for the booking provider:
// paginated booking-record retrieval, staff listing, and end-user
// authentication. Retry/backoff and wire-level details stay inside this
// package; the rest of the application consumes the Client interface only.
package provider

import "context"

// RecordClient is the client field of a booking record. It is null for
// internal/blocked bookings that have no customer attached.
type RecordClient struct {
	ID    int64  `json:"id"`
	Phone string `json:"phone"`
}

// RecordService is one service line of a booking record. Only the first
// listed service contributes to the local projection.
type RecordService struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Record is one booking record as returned by the provider. Datetime is kept
// as the raw wire string; normalization to a precise timestamp happens in the
// reconciler.
type Record struct {
	ID            int64           `json:"id"`
	StaffID       int64           `json:"staff_id"`
	Client        *RecordClient   `json:"client"`
	Services      []RecordService `json:"services"`
	Datetime      string          `json:"datetime"`
	Attendance    int             `json:"attendance"`
	Length        int             `json:"length"` // seconds
	PaymentStatus int             `json:"payment_status"`
	Deleted       bool            `json:"deleted"`
	BookformID    *int64          `json:"bookform_id,omitempty"`
}

// StaffUser carries the user sub-object of a staff entry.
type StaffUser struct {
	Phone string `json:"phone"`
}

// Staff is one staff member of the salon.
type Staff struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	IsFired   bool       `json:"fired"`
	IsDeleted bool       `json:"deleted"`
	User      *StaffUser `json:"user"`
}

// Session is the result of a successful end-user authentication.
type Session struct {
	ID    int64  `json:"id"`
	Token string `json:"user_token"`
}

// RecordsFilter scopes a records request. Zero values mean "unset" except
// Page/PageSize, which the fetcher always supplies explicitly.
type RecordsFilter struct {
	StaffID        int64
	ClientID       int64
	Page           int
	PageSize       int
	IncludeDeleted bool
}

// RecordsPage is one page of booking records plus the provider-reported total
// across all pages.
type RecordsPage struct {
	Records    []Record
	TotalCount int
}

// Client is the logical booking-provider API consumed by the sync pipeline.
type Client interface {
	// FetchRecords returns one page of booking records matching the filter.
	FetchRecords(ctx context.Context, f RecordsFilter) (*RecordsPage, error)
	// FetchStaff returns all staff members of the configured salon.
	FetchStaff(ctx context.Context) ([]Staff, error)
	// AuthenticateByCode exchanges a phone number and SMS code for a session.
	AuthenticateByCode(ctx context.Context, phone, code string) (*Session, error)
	// AuthenticateByPassword exchanges login credentials for a session.
	AuthenticateByPassword(ctx context.Context, login, password string) (*Session, error)
}
