// Package domain defines the persistence models shared by the repository and
// service layers: internal users, identity/chat mappings against the booking
// provider, the locally cached booking-record projections, chats, messages,
// and the push-notification queue. All types are mapped with GORM.
package domain

import (
	"time"
)

// Chat status values. A chat is "active" while at least one booking record in
// its sub-ledger is inside its execution window, "archived" otherwise.
const (
	ChatStatusNew      = "new"
	ChatStatusActive   = "active"
	ChatStatusArchived = "archived"
	ChatStatusPaused   = "paused"
)

// Message status values used by the notification dispatcher gates.
const (
	MessageStatusSent = "sent"
	MessageStatusRead = "read"
)

// Notification types and statuses.
const (
	NotificationTypeNewMessage = "new_message"
	NotificationTypeChatUpdate = "chat_update"
	NotificationTypeSystem     = "system"

	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// Attendance codes as reported by the booking provider.
const (
	AttendanceArrived = 1  // client attended
	AttendancePending = 0  // not yet settled
	AttendanceNoShow  = -1 // cancelled / no-show
)

// User is an internal chat-application account. ProviderUserID links it to
// the booking-provider account obtained during authentication; identity
// mappings reference users through that value, not through the internal id.
type User struct {
	ID             string    `json:"id"               gorm:"type:char(36);primaryKey"`
	ProviderUserID int64     `json:"provider_user_id" gorm:"uniqueIndex"`
	Name           string    `json:"name"             gorm:"type:varchar(255)"`
	Phone          string    `json:"phone"            gorm:"type:varchar(32);index"`
	PushToken      string    `json:"-"                gorm:"type:text"`
	PushEnabled    bool      `json:"push_enabled"     gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// IdentityMapping links one booking-provider identity to one internal user.
// A mapping may carry both a client id and a staff id: the same person can be
// a customer of the salon and an employee. At most one mapping exists per
// provider client id and per phone number.
//
// Lifecycle: created on first successful authentication; the provider token
// is refreshed on every subsequent authentication; never hard-deleted.
type IdentityMapping struct {
	ID             string    `json:"id"               gorm:"type:char(36);primaryKey"`
	ProviderUserID int64     `json:"provider_user_id" gorm:"index"`
	ClientID       *int64    `json:"client_id"        gorm:"uniqueIndex"`
	StaffID        *int64    `json:"staff_id"         gorm:"index"`
	Phone          string    `json:"phone"            gorm:"type:varchar(32);index"`
	Token          string    `json:"-"                gorm:"type:text"`
	DisplayName    string    `json:"display_name"     gorm:"type:varchar(255)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for IdentityMapping.
func (IdentityMapping) TableName() string { return "identity_mappings" }

// ChatMapping is the canonical correlation between one (staff, client)
// relationship at the booking provider and one chat. Identity fields are
// captured at creation time and never updated; the phone acts as an alternate
// client key so a client who re-registers under a new provider id still
// resolves to the same mapping.
type ChatMapping struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	StaffID     int64     `json:"staff_id"     gorm:"not null;index:idx_mapping_staff"`
	StaffPhone  string    `json:"staff_phone"  gorm:"type:varchar(32)"`
	ClientID    int64     `json:"client_id"    gorm:"index"`
	ClientPhone string    `json:"client_phone" gorm:"type:varchar(32);index"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for ChatMapping.
func (ChatMapping) TableName() string { return "chat_mappings" }

// BookingRecord is the comparison-ready local projection of one external
// booking record, owned by a ChatMapping (the mapping's sub-ledger). Keyed
// 1:1 by external record id within its mapping. The reconciler flips the
// Deleted flag instead of removing rows.
type BookingRecord struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	ChatMappingID string    `json:"mapping_id"     gorm:"type:char(36);not null;uniqueIndex:ux_mapping_record,priority:1"`
	ExternalID    int64     `json:"external_id"    gorm:"not null;uniqueIndex:ux_mapping_record,priority:2"`
	Deleted       bool      `json:"deleted"        gorm:"not null;default:false"`
	ServiceTitle  *string   `json:"service_title"  gorm:"type:varchar(255)"`
	ServiceID     *int64    `json:"service_id"`
	Datetime      time.Time `json:"datetime"       gorm:"not null;index"`
	Attendance    int       `json:"attendance"     gorm:"not null;default:0"`
	Length        int       `json:"length"         gorm:"not null;default:0"` // seconds
	PaymentStatus int       `json:"payment_status" gorm:"not null;default:0"`
	BookformID    *int64    `json:"bookform_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Mapping ChatMapping `json:"-" gorm:"foreignKey:ChatMappingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for BookingRecord.
func (BookingRecord) TableName() string { return "booking_records" }

// Chat is the user-facing conversation entity, at most one per ChatMapping.
// Status, Title, DisplayDate and Participants are a derived projection of the
// mapping's record sub-ledger and are overwritten wholesale on each
// projection pass.
type Chat struct {
	ID            string     `json:"id"           gorm:"type:char(36);primaryKey"`
	ChatMappingID string     `json:"mapping_id"   gorm:"type:char(36);not null;uniqueIndex"`
	Participants  []string   `json:"participants" gorm:"serializer:json"`
	Title         *string    `json:"title"        gorm:"type:varchar(255)"`
	DisplayDate   *time.Time `json:"display_date"`
	Status        string     `json:"status"       gorm:"type:varchar(16);not null;default:'new';check:status IN ('new','active','archived','paused')"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// Message is a single chat message. The send/receive path is external to this
// service; the model exists because the notification dispatcher gates on a
// message's read status and last-updated time.
type Message struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ChatID    string    `json:"chat_id"    gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	SenderID  string    `json:"sender_id"  gorm:"type:char(36);not null"`
	Text      string    `json:"text"       gorm:"type:text;not null"`
	Status    string    `json:"status"     gorm:"type:varchar(16);not null;default:'sent';check:status IN ('sent','read')"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_chat_msgs,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// PendingNotification is a queued intent to push-notify one user about one
// event. Items are created by the message-send path and consumed by the
// dispatcher, which moves every item to a terminal state in one sweep.
type PendingNotification struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Type        string    `json:"type"         gorm:"type:varchar(32);not null;check:type IN ('new_message','chat_update','system')"`
	Title       string    `json:"title"        gorm:"type:varchar(255)"`
	Body        string    `json:"body"         gorm:"type:text"`
	SenderID    string    `json:"sender_id"    gorm:"type:char(36)"`
	RecipientID string    `json:"recipient_id" gorm:"type:char(36);not null;index"`
	ChatID      *string   `json:"chat_id"      gorm:"type:char(36)"`
	MessageID   *string   `json:"message_id"   gorm:"type:char(36)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for PendingNotification.
func (PendingNotification) TableName() string { return "pending_notifications" }

// NotificationHistory is the sent-history record written on terminal
// dispatcher transitions. Early-exit removals (stale recipient or message,
// already-read message) do not produce history rows.
type NotificationHistory struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Type        string    `json:"type"         gorm:"type:varchar(32);not null"`
	Title       string    `json:"title"        gorm:"type:varchar(255)"`
	Body        string    `json:"body"         gorm:"type:text"`
	SenderID    string    `json:"sender_id"    gorm:"type:char(36)"`
	RecipientID string    `json:"recipient_id" gorm:"type:char(36);not null;index"`
	ChatID      *string   `json:"chat_id"      gorm:"type:char(36)"`
	MessageID   *string   `json:"message_id"   gorm:"type:char(36)"`
	Status      string    `json:"status"       gorm:"type:varchar(16);not null;check:status IN ('sent','failed')"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for NotificationHistory.
func (NotificationHistory) TableName() string { return "notification_history" }
