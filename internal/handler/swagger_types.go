package handler

// Swagger type definitions for API documentation.

// --- Request Types ---

// CheckAnswerRequest represents the check answer request body.
type CheckAnswerRequest struct {
	Answer string `json:"answer" binding:"required" example:"Oxygen"`
}

// UpdatePreferencesRequest represents the update preferences request body.
type UpdatePreferencesRequest struct {
	Theme    *string `json:"theme" example:"dark"`
	Language *string `json:"language" example:"ar"`
}

// --- Response Types ---

// Response is the generic success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

// ErrorResponseBody is the error envelope.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}
