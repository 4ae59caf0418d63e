package controllers

import (
	"encoding/json"
	"net/http"

	"item-audit-api/auth"
	"item-audit-api/repositories"
)

// writeJSON serializes data as a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeError renders an application error as {"detail": <message>}
func writeError(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, map[string]string{"detail": detail})
}

// Controllers holds all controller instances
type Controllers struct {
	Auth     *AuthController
	Item     *ItemController
	AuditLog *AuditLogController
}

// NewControllers creates and initializes all controller instances
func NewControllers(repos *repositories.Repositories, tokens *auth.TokenService) *Controllers {
	return &Controllers{
		Auth:     NewAuthController(repos.User, tokens),
		Item:     NewItemController(repos.Item),
		AuditLog: NewAuditLogController(repos.Audit),
	}
}
