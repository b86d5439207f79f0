package model

import "time"

// StatusTransportFailure is the reserved status_code meaning no HTTP response
// was received at all (DNS failure, refused connection, TLS failure, timeout).
const StatusTransportFailure = 0

// URLCheck is one fetch-and-classify pass over a registered URL. Rows are
// append-only; content fields stay nil when the fetch failed before a body was
// available or the page lacked the element.
type URLCheck struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	URLID       int64     `json:"url_id" gorm:"column:url_id;not null;index"`
	StatusCode  int       `json:"status_code" gorm:"not null"`
	H1          *string   `json:"h1" gorm:"type:text"`
	Title       *string   `json:"title" gorm:"type:text"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName keeps the legacy table name.
func (URLCheck) TableName() string { return "url_checks" }

// CheckClass is the user-facing classification of a check outcome, derived
// purely from the recorded status code.
type CheckClass string

const (
	ClassOK             CheckClass = "ok"
	ClassRemoteNotFound CheckClass = "remote_not_found"
	ClassServerError    CheckClass = "server_error"
	ClassClientError    CheckClass = "client_error"
	ClassTransportError CheckClass = "transport_error"
)

// ClassifyStatus maps a recorded status code onto its outcome class.
func ClassifyStatus(code int) CheckClass {
	switch {
	case code == StatusTransportFailure:
		return ClassTransportError
	case code == 404:
		return ClassRemoteNotFound
	case code >= 500:
		return ClassServerError
	case code >= 200 && code < 400:
		return ClassOK
	default:
		return ClassClientError
	}
}
