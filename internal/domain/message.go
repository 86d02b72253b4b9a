package domain

import (
	"time"
)

// Message represents one processed chat message together with its decision trail.
// A message is written once per inbound event; the decision trail columns record
// what every signal said at the time the verdict was made.
type Message struct {
	ID              uint     `gorm:"primaryKey" json:"-"`
	MessageID       int64    `gorm:"uniqueIndex:idx_messages_message_id;not null" json:"message_id"`
	Text            string   `gorm:"type:text;not null" json:"text"`
	SenderInfo      string   `gorm:"type:text" json:"sender_info"`
	ChatTitle       string   `gorm:"type:text" json:"chat_title"`
	MessageDate     string   `gorm:"type:text" json:"message_date"`
	SimilarityScore float64  `json:"similarity_score"`
	IsFullCycle     bool     `json:"is_full_cycle"`
	MLProbability   *float64 `gorm:"column:ml_probability" json:"ml_probability,omitempty"`
	Forwarded       bool     `json:"forwarded"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string {
	return "messages"
}
