package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createTaskRequest struct {
	Text      string `json:"text"      validate:"required,max=100"`
	Completed *bool  `json:"completed"`
}

type updateTaskRequest struct {
	Text      *string `json:"text"      validate:"omitempty,min=1,max=100"`
	Completed *bool   `json:"completed"`
}

// taskResponse is the transport view of a task. It is intentionally separate
// from the domain type so the JSON contract is not coupled to internal
// changes.
type taskResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}
