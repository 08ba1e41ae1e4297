package response

// StandardApiResponse is the envelope every handler writes. Data carries
// the success payload, Errors carries validation detail or the failure
// cause; the two are mutually exclusive.
type StandardApiResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
