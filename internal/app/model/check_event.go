package model

import "time"

// CheckEvent is published on NATS after each persisted check so the audit
// consumer can log it and feed the metrics counters.
type CheckEvent struct {
	ID         string     `json:"id"`
	URLID      int64      `json:"url_id"`
	URLName    string     `json:"url_name"`
	StatusCode int        `json:"status_code"`
	Class      CheckClass `json:"class"`
	CheckedAt  time.Time  `json:"checked_at"`
}

const (
	CheckStreamName     = "CHECKS"
	CheckStreamSubject  = "checks.completed"
	CheckConsumerName   = "check-auditor"
	CheckStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
