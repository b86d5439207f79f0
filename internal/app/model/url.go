package model

import "time"

// URL is a registered page in the catalog. Name is the canonical form of the
// address and is the uniqueness key; records are never mutated after creation.
type URL struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName keeps the legacy table name.
func (URL) TableName() string { return "urls" }

// URLSummary is a catalog row joined with its most recent check, for the
// listing page. LastCheckedAt/LastStatusCode are nil until a check exists.
type URLSummary struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	CreatedAt      time.Time  `json:"created_at"`
	LastCheckedAt  *time.Time `json:"last_checked_at"`
	LastStatusCode *int       `json:"last_status_code"`
}
