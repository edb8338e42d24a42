package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// MessageResponse is the body shape for plain-message failures.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse is the body shape for field-level validation failures.
type ValidationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// WriteMessage writes a `{message: "..."}` body.
func WriteMessage(logger *log.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, MessageResponse{Message: message})
}

// WriteValidationErrors writes the shared validation failure body.
func WriteValidationErrors(logger *log.Logger, w http.ResponseWriter, errs map[string]string) {
	WriteJSON(logger, w, http.StatusBadRequest, ValidationResponse{
		Message: "validation failed",
		Errors:  errs,
	})
}
