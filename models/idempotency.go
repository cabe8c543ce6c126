package models

import "time"

// IdempotencyKey stores the first completed response for a given request hash.
type IdempotencyKey struct {
	Key            string     `json:"key"`          // header value
	RequestHash    string     `json:"request_hash"` // sha256 of method|path|body
	Method         string     `json:"method"`
	Path           string     `json:"path"`
	ResponseStatus int        `json:"response_status"` // 0 => not completed yet
	ResponseBody   []byte     `json:"-"`
	ContentType    string     `json:"content_type"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// Completed reports whether a response has been recorded for the key.
func (k IdempotencyKey) Completed() bool {
	return k.ResponseStatus != 0
}
