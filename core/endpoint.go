package core

// Endpoint describes one route independently of the HTTP framework serving it.
type Endpoint struct {
	Path      string
	Method    string
	Protected bool // requires a valid session token
	Metadata  EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
}

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Error string `json:"error"`
}
