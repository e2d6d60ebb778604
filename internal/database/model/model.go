// Package model declares the persisted chat history schema.
package model

import "time"

// ChatMessage is one turn of a search conversation. Role is "user" for
// the question, "assistant" for the generated answer and "context" for
// the retrieved chunks fed to the generator.
type ChatMessage struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Owner     string     `gorm:"column:owner;size:64;index" json:"owner"`
	Role      string     `gorm:"column:role;size:16" json:"role"`
	Content   string     `gorm:"column:content;type:text" json:"content"`
	ChunkID   *string    `gorm:"column:chunk_id;size:128" json:"chunk_id,omitempty"`
	CreatedAt *time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at,omitempty"`
}

// TableName overrides the default gorm table name.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
