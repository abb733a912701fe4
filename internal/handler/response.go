package handler

// Envelope is the wire shape of every successful response. Error
// responses carry status "fail" or "error" and are written by the global
// error handler.
type Envelope struct {
	Status      string `json:"status"`
	NoOfResults *int   `json:"no_of_results,omitempty"`
	Token       string `json:"token,omitempty"`
	Data        any    `json:"data,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Success wraps a single result.
func Success(data any) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
	}
}

// SuccessList wraps a list result with its item count.
func SuccessList(data any, n int) Envelope {
	return Envelope{
		Status:      "success",
		NoOfResults: &n,
		Data:        data,
	}
}

// SuccessWithToken wraps an auth result carrying a fresh JWT.
func SuccessWithToken(data any, token string) Envelope {
	return Envelope{
		Status: "success",
		Token:  token,
		Data:   data,
	}
}
