// Package domain defines the persisted record types relayed between the two
// correspondents: chat messages, journal entries, moments, mood statuses, and
// quiz answers. These types are mapped with GORM and double as the wire shapes
// sent to clients in sync and broadcast events, so their JSON tags follow the
// client protocol (camelCase).
package domain

import "time"

// Message is a direct chat message from one correspondent to the other.
// Messages are created on relay, immutable afterwards, and never deleted.
//
// Fields:
//   - ID: server-assigned UUID (char(36)).
//   - From / To: opaque identity tokens of sender and recipient.
//   - Body: full text content.
//   - CreatedAt: server-assigned UTC timestamp at the moment of relay.
type Message struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	From      string    `json:"from"      gorm:"column:from_id;type:varchar(64);not null;index:idx_msg_from"`
	To        string    `json:"to"        gorm:"column:to_id;type:varchar(64);not null;index:idx_msg_to"`
	Body      string    `json:"message"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"timestamp"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// JournalEntry is a shared journal record visible to both correspondents.
type JournalEntry struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	From      string    `json:"from"      gorm:"column:from_id;type:varchar(64);not null;index"`
	Text      string    `json:"text"      gorm:"type:text;not null"`
	Mood      string    `json:"mood"      gorm:"type:varchar(32)"`
	CreatedAt time.Time `json:"date"`
}

// TableName returns the database table name for JournalEntry.
func (JournalEntry) TableName() string { return "journal_entries" }

// Moment is a shared memory-style record. Unlike the other records its Date is
// client-supplied (the day the moment happened, not the day it was uploaded);
// CreatedAt still records when the server persisted it.
type Moment struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	From        string    `json:"from"        gorm:"column:from_id;type:varchar(64);not null;index"`
	Title       string    `json:"title"       gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Date        string    `json:"date"        gorm:"type:varchar(32)"`
	CreatedAt   time.Time `json:"-"`
}

// TableName returns the database table name for Moment.
func (Moment) TableName() string { return "moments" }

// MoodStatus is the one mutable-by-replacement record: at most one live row
// per identity, last write wins.
type MoodStatus struct {
	From      string    `json:"from"      gorm:"column:from_id;type:varchar(64);primaryKey"`
	Mood      string    `json:"mood"      gorm:"type:varchar(32);not null"`
	Energy    int       `json:"energy"    gorm:"not null"`
	UpdatedAt time.Time `json:"timestamp"`
}

// TableName returns the database table name for MoodStatus.
func (MoodStatus) TableName() string { return "mood_statuses" }

// QuizAnswer records one submitted quiz answer together with its evaluation
// outcome. Both correct and incorrect answers are persisted.
type QuizAnswer struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	From       string    `json:"from"       gorm:"column:from_id;type:varchar(64);not null;index"`
	QuestionID string    `json:"questionId" gorm:"column:question_id;type:varchar(64);not null"`
	AnswerID   string    `json:"answerId"   gorm:"column:answer_id;type:varchar(64);not null"`
	Correct    bool      `json:"correct"    gorm:"not null"`
	CreatedAt  time.Time `json:"timestamp"`
}

// TableName returns the database table name for QuizAnswer.
func (QuizAnswer) TableName() string { return "quiz_answers" }

// CallCount is one row of the persisted call-counter snapshot: the number of
// accepted calls attributed to an identity. Incremented on accept only.
type CallCount struct {
	Identity  string    `json:"identity" gorm:"type:varchar(64);primaryKey"`
	Count     int64     `json:"count"    gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for CallCount.
func (CallCount) TableName() string { return "call_counts" }
