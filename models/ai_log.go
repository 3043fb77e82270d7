package models

import "time"

const (
	AIQueryLogTable = "rfb_ai_query_log"
	AIUsageTable    = "rfb_ai_usage"
)

// AIQueryLog records one assistant invocation for auditing.
type AIQueryLog struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string `gorm:"type:uuid;index;not null" json:"userId"`
	Prompt       string `gorm:"type:text;not null" json:"prompt"`
	Response     string `gorm:"type:text" json:"response,omitempty"`
	InputTokens  int    `gorm:"not null;default:0" json:"inputTokens"`
	OutputTokens int    `gorm:"not null;default:0" json:"outputTokens"`
	Model        string `gorm:"size:100;not null" json:"model"`
	Success      bool   `gorm:"not null;default:true" json:"success"`
	ErrorMessage string `gorm:"type:text" json:"errorMessage,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (AIQueryLog) TableName() string { return AIQueryLogTable }

// AIUsage aggregates assistant traffic per calendar day.
type AIUsage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Date         time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	QueriesCount int       `gorm:"not null;default:0" json:"queriesCount"`
	InputTokens  int       `gorm:"not null;default:0" json:"inputTokens"`
	OutputTokens int       `gorm:"not null;default:0" json:"outputTokens"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (AIUsage) TableName() string { return AIUsageTable }
