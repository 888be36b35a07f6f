package docreq

import "time"

// Department is the organizational unit a request belongs to.
// Nested under Request so list columns can address "department.name".
type Department struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Request is one document-processing request as the upstream API reports
// it. CompletedAt is nil while processing is still underway; such cells
// sort to the end of any timestamp column.
type Request struct {
	ID           string     `json:"id"`
	Reference    string     `json:"reference"`
	Status       string     `json:"status"`
	DocumentType string     `json:"document_type"`
	Department   Department `json:"department"`
	PageCount    int        `json:"page_count"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	Error        string     `json:"error,omitempty"`
}

// Batch groups requests submitted together.
type Batch struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	RequestCount int       `json:"request_count"`
	FailedCount  int       `json:"failed_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProcessingError is one failure recorded while processing a request.
type ProcessingError struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	Stage      string    `json:"stage"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReferenceEntry is one row of a reference-data table (document types,
// departments, statuses). All three kinds share this shape.
type ReferenceEntry struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Page is one page of list results together with the full match count,
// the shape server-mode tables consume.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}
