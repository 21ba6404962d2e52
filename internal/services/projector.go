// Package services – ChatStatusProjector
//
// Derives a chat's status, display title, display date, and participant list
// from the full current sub-ledger of its mapping, and persists the chat only
// when the derived projection differs from stored state. Recomputing from
// unchanged input yields no write.
//
// Activity rule: a record is active while it is not flagged deleted, its
// attendance is unsettled (neither arrived nor no-show), and its scheduled
// datetime is no earlier than now − 3×duration. The 3× grace window absorbs
// appointments running long; an explicitly settled record is never active
// regardless of timing.
package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/mkrasov/salon-chat-sync/internal/domain"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
)

// activityGraceFactor scales a record's duration into its post-start grace
// window.
const activityGraceFactor = 3

// ProjectOutcome reports what a single projection pass did.
type ProjectOutcome int

const (
	// ChatUnchanged means the stored chat already matched the projection.
	ChatUnchanged ProjectOutcome = iota
	// ChatCreated means a chat was created for a mapping that had none.
	ChatCreated
	// ChatUpdated means the stored chat was overwritten with new projection.
	ChatUpdated
	// ChatSkipped means the mapping's sub-ledger is empty; no chat mutation.
	ChatSkipped
)

// ChatStatusProjector recomputes derived chat state for one mapping.
type ChatStatusProjector struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Participants resolves the mapping's internal participant user ids.
	Participants *ParticipantResolver

	// TitleMaxLen caps stored display titles by rune length.
	TitleMaxLen int
	// TitleLocale selects the caser for display-title casing.
	TitleLocale language.Tag
}

// NewChatStatusProjector constructs a projector with sane title defaults.
func NewChatStatusProjector(db *gorm.DB) *ChatStatusProjector {
	return &ChatStatusProjector{
		DB:           db,
		Participants: &ParticipantResolver{DB: db},
		TitleMaxLen:  120,
		TitleLocale:  language.Und,
	}
}

// recordActive reports whether r is inside its execution/grace window and not
// yet settled, evaluated against the supplied clock value. The boundary is
// inclusive: a record scheduled exactly at now − 3×length is still active.
func recordActive(r domain.BookingRecord, now time.Time) bool {
	if r.Deleted {
		return false
	}
	if r.Attendance == domain.AttendanceArrived || r.Attendance == domain.AttendanceNoShow {
		return false
	}
	cutoff := now.Add(-activityGraceFactor * time.Duration(r.Length) * time.Second)
	return !r.Datetime.Before(cutoff)
}

// Project recomputes and persists the chat derived from mappingID's
// sub-ledger. now is threaded explicitly so the activity rule is
// deterministic under test.
func (p *ChatStatusProjector) Project(ctx context.Context, mappingID string, now time.Time) (ProjectOutcome, error) {
	mapping, err := repo.GetChatMapping(ctx, p.DB, mappingID)
	if err != nil {
		return ChatUnchanged, err
	}

	records, err := repo.ListRecords(ctx, p.DB, mappingID)
	if err != nil {
		return ChatUnchanged, err
	}
	if len(records) == 0 {
		// Nothing to project from; never create an empty chat.
		return ChatSkipped, nil
	}

	display, status := selectDisplay(records, now)
	participants, err := p.Participants.Resolve(ctx, mapping)
	if err != nil {
		return ChatUnchanged, err
	}

	title := p.displayTitle(display.ServiceTitle)
	displayDate := display.Datetime

	existing, err := repo.GetChatByMappingID(ctx, p.DB, mappingID)
	if errors.Is(err, repo.ErrNotFound) {
		chat := &domain.Chat{
			ID:            uuid.NewString(),
			ChatMappingID: mappingID,
			Participants:  participants,
			Title:         title,
			DisplayDate:   &displayDate,
			Status:        status,
		}
		if _, err := repo.CreateChat(ctx, p.DB, chat); err != nil {
			return ChatUnchanged, err
		}
		return ChatCreated, nil
	}
	if err != nil {
		return ChatUnchanged, err
	}

	if projectionEqual(existing, status, title, &displayDate, participants) {
		return ChatUnchanged, nil
	}

	existing.Status = status
	existing.Title = title
	existing.DisplayDate = &displayDate
	existing.Participants = participants
	if err := repo.UpdateChatProjection(ctx, p.DB, existing); err != nil {
		return ChatUnchanged, err
	}
	return ChatUpdated, nil
}

// selectDisplay picks the record that supplies display metadata and the
// derived chat status. With active records present, the soonest one (earliest
// datetime) wins and the chat is active; otherwise the most recent past
// record wins and the chat is archived.
func selectDisplay(records []domain.BookingRecord, now time.Time) (domain.BookingRecord, string) {
	var active *domain.BookingRecord
	for i := range records {
		r := &records[i]
		if !recordActive(*r, now) {
			continue
		}
		if active == nil || r.Datetime.Before(active.Datetime) {
			active = r
		}
	}
	if active != nil {
		return *active, domain.ChatStatusActive
	}

	latest := &records[0]
	for i := range records {
		if records[i].Datetime.After(latest.Datetime) {
			latest = &records[i]
		}
	}
	return *latest, domain.ChatStatusArchived
}

// displayTitle normalizes a service title for display: whitespace collapsed,
// locale-aware title casing, clipped to TitleMaxLen runes. A nil or blank
// source yields a nil title.
func (p *ChatStatusProjector) displayTitle(serviceTitle *string) *string {
	if serviceTitle == nil {
		return nil
	}
	t := strings.Join(strings.Fields(*serviceTitle), " ")
	if t == "" {
		return nil
	}
	t = cases.Title(p.TitleLocale, cases.NoLower).String(t)
	if p.TitleMaxLen > 0 && utf8.RuneCountInString(t) > p.TitleMaxLen {
		t = string([]rune(t)[:p.TitleMaxLen])
	}
	return &t
}

// projectionEqual compares the stored chat against a freshly derived
// projection. The participant comparison is order-independent.
func projectionEqual(c *domain.Chat, status string, title *string, displayDate *time.Time, participants []string) bool {
	if c.Status != status {
		return false
	}
	if !eqStringPtr(c.Title, title) {
		return false
	}
	if !eqTimePtr(c.DisplayDate, displayDate) {
		return false
	}
	return eqUnordered(c.Participants, participants)
}

func eqTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func eqUnordered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
