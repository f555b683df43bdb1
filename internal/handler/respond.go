// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gurkanbulca/taskboard/internal/apperr"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func respondWithJSON(w http.ResponseWriter, code int, data interface{}, message string) {
	payload := APIResponse{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    code < 400,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

// respondWithError maps a typed application error to its status code. Only
// the public message crosses the boundary; wrapped causes never do.
func respondWithError(w http.ResponseWriter, err error) {
	respondWithJSON(w, apperr.HTTPStatus(err), nil, apperr.PublicMessage(err))
}

// RespondUnauthorized writes the 401 envelope. Exported for the auth
// middleware, which lives outside this package.
func RespondUnauthorized(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusUnauthorized, nil, message)
}
