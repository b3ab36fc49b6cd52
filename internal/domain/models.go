// Package domain defines the core data types of the advising backend:
// user identities, chat turns, and derived usage statistics. ChatTurn is
// mapped with GORM for the document-record persistence backend; the other
// types are plain values shared across packages.
package domain

import (
	"time"
)

// Role is the authorization level attached to an identity. Roles form a
// total order student < staff < faculty < admin; unknown roles rank below
// student everywhere.
type Role string

// Known roles, in ascending rank order.
const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleFaculty Role = "faculty"
	RoleGuest   Role = "guest"
	RoleAdmin   Role = "admin"
)

// Identity describes a directory user. Identities are provisioned statically
// at startup and never mutated at runtime. The password hash lives in the
// directory, not here; an Identity handed out by authentication or token
// verification never carries credentials.
//
// StudentNumber/Department/Year are populated for students,
// EmployeeID/Position for faculty and staff.
type Identity struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	StudentNumber string `json:"student_number,omitempty"`
	Department    string `json:"department,omitempty"`
	Year          int    `json:"year,omitempty"`
	EmployeeID    string `json:"employee_id,omitempty"`
	Position      string `json:"position,omitempty"`
}

// SessionInfo is optional per-turn client metadata captured at ingest time.
type SessionInfo struct {
	UserAgent string `json:"user_agent,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

// ChatTurn is one exchange in a conversation: the user's message and the
// generated reply, plus routing metadata. A turn is created exactly once per
// inbound message and is immutable afterwards.
//
// Fields:
//   - ID: stable UUID primary key, assigned by the persistence gateway.
//   - ChatID: groups the turns of one conversation.
//   - UserID: identifier of the author; indexed for history reads.
//   - UserMessage / AIResponse: the exchanged text.
//   - IsEvaluation: whether this turn requested competency evaluation
//     rather than open-ended conversation.
//   - Timestamp: UTC instant of the exchange, set by the orchestration layer.
//   - CreatedAt: server-set storage timestamp.
type ChatTurn struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	ChatID       string    `json:"chat_id"       gorm:"type:char(36);not null;index"`
	UserID       string    `json:"user_id"       gorm:"type:varchar(64);not null;index:idx_user_turns,priority:1"`
	UserMessage  string    `json:"user_message"  gorm:"type:text;not null"`
	AIResponse   string    `json:"ai_response"   gorm:"type:text;not null"`
	IsEvaluation bool      `json:"is_competency_evaluation" gorm:"not null;index"`
	Timestamp    time.Time `json:"timestamp"     gorm:"index:idx_user_turns,priority:2"`
	UserAgent    string    `json:"user_agent,omitempty" gorm:"type:varchar(255)"`
	IPAddress    string    `json:"ip_address,omitempty" gorm:"type:varchar(64)"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for ChatTurn.
func (ChatTurn) TableName() string { return "chat_turns" }

// UsageStats is a derived snapshot of store-wide activity. It is recomputed
// on demand by full-scan aggregation and never persisted.
type UsageStats struct {
	TotalMessages   int64     `json:"total_messages"`
	EvaluationCount int64     `json:"competency_evaluations"`
	ActiveUsers     int64     `json:"active_users"`
	ComputedAt      time.Time `json:"updated_at"`
}
