package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"item-audit-api/auth"
	"item-audit-api/models"
	"item-audit-api/repositories"
)

// tokenPath is the token-issuance endpoint, whose response bodies carry
// credentials and must be filtered before storage.
const tokenPath = "/token"

// excludedFields are the payload keys always stripped before persistence
var excludedFields = map[string]struct{}{
	"password":      {},
	"access_token":  {},
	"refresh_token": {},
}

// AuditLogger middleware records every request/response pair to the audit
// log. It buffers both bodies (each is a single-consume stream), stores a
// filtered copy, and replays the original bytes so the downstream handler
// and the client see the exchange unchanged.
func AuditLogger(audit repositories.AuditRepository, users repositories.UserRepository, tokens *auth.TokenService, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := r.Method
			path := r.URL.Path
			timestamp := time.Now().UTC()

			// Buffer the request body once and hand the downstream handler
			// a fresh reader over the same bytes
			var requestBody []byte
			if r.Body != nil {
				var err error
				requestBody, err = io.ReadAll(r.Body)
				if err != nil {
					http.Error(w, "failed to read request body", http.StatusBadRequest)
					return
				}
				r.Body.Close()
				r.Body = io.NopCloser(bytes.NewReader(requestBody))
			}

			filteredRequestBody := ""
			if len(requestBody) > 0 {
				filtered, err := filterSensitiveFields(requestBody)
				if err != nil {
					// Unparseable bodies are stored as empty, never raw,
					// and never fail the request
					log.Warn("failed to decode request body for audit log",
						zap.String("method", method),
						zap.String("path", path),
						zap.Error(err),
					)
				} else {
					filteredRequestBody = filtered
				}
			}

			// Run the downstream handler against a buffering recorder
			recorder := newResponseRecorder()
			next.ServeHTTP(recorder, r)

			responseBody := recorder.body.Bytes()

			filteredResponseBody := ""
			if path == tokenPath {
				// Token responses carry credentials; store the stripped
				// form or nothing at all
				if filtered, err := filterSensitiveFields(responseBody); err == nil {
					filteredResponseBody = filtered
				}
			} else {
				filteredResponseBody = string(responseBody)
			}

			userID := resolveUserID(r, users, tokens, log)

			entry := &models.AuditLogEntry{
				Method:       method,
				Path:         path,
				Timestamp:    timestamp,
				RequestBody:  filteredRequestBody,
				ResponseBody: filteredResponseBody,
				StatusCode:   recorder.status,
				UserID:       userID,
			}

			if err := audit.Create(r.Context(), entry); err != nil {
				// Strict audit: an exchange that cannot be recorded does
				// not get its response delivered
				log.Error("failed to create audit log entry",
					zap.String("method", method),
					zap.String("path", path),
					zap.Error(err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail": "Internal Server Error"}`))
				return
			}

			log.Debug("audit entry recorded",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", recorder.status),
			)

			// Replay the buffered response to the real client
			recorder.flush(w)
		})
	}
}

// filterSensitiveFields parses a JSON object and re-serializes it without
// the excluded keys
func filterSensitiveFields(body []byte) (string, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	for key := range excludedFields {
		delete(payload, key)
	}

	filtered, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return string(filtered), nil
}

// resolveUserID resolves the acting user from the Authorization header.
// Missing headers, bad tokens and unknown users all degrade to nil; this
// never fails the request.
func resolveUserID(r *http.Request, users repositories.UserRepository, tokens *auth.TokenService, log *zap.Logger) *int64 {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}

	username, err := tokens.Decode(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		log.Debug("audit user resolution failed", zap.Error(err))
		return nil
	}

	user, err := users.GetByUsername(r.Context(), username)
	if err != nil {
		log.Debug("audit user resolution failed", zap.Error(err))
		return nil
	}

	return &user.ID
}

// responseRecorder buffers a handler's response so the middleware can log
// the body and still deliver the original bytes, status and headers.
type responseRecorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (rec *responseRecorder) Header() http.Header {
	return rec.header
}

func (rec *responseRecorder) WriteHeader(status int) {
	if rec.wroteHeader {
		return
	}
	rec.status = status
	rec.wroteHeader = true
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	rec.wroteHeader = true
	return rec.body.Write(b)
}

// flush writes the recorded response to the real writer
func (rec *responseRecorder) flush(w http.ResponseWriter) {
	for key, values := range rec.header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(rec.status)
	w.Write(rec.body.Bytes())
}
