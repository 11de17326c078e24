package hooks

import "encoding/json"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

type MessageInfo struct {
	Sender string
}

type InstantiateMsg struct {
	PuppeteerAddr string `json:"puppeteer_addr"`
}

type Config struct {
	PuppeteerAddr string `json:"puppeteer_addr"`
}

// ResponseHookSuccess acknowledges an operation the runner completed.
type ResponseHookSuccess struct {
	RequestID    uint64          `json:"request_id"`
	Transaction  string          `json:"transaction"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	LocalHeight  uint64          `json:"local_height"`
	RemoteHeight uint64          `json:"remote_height"`
}

// ResponseHookError reports an operation the runner could not complete.
type ResponseHookError struct {
	RequestID   uint64          `json:"request_id"`
	Transaction string          `json:"transaction"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Details     string          `json:"details"`
}

// Page selects up to Limit records starting at index After.
type Page struct {
	After uint64
	Limit int
}

type PageResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor uint64 `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

// Snapshot is the full state of an aggregator.
type Snapshot struct {
	Config  Config                `json:"config"`
	Answers []ResponseHookSuccess `json:"answers"`
	Errors  []ResponseHookError   `json:"errors"`
}
