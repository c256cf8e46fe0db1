package middleware

import (
	"encoding/json"
	"net/http"

	insureAuth "github.com/MrEthical07/insureAuth"
)

// StatusFor maps an engine error to its HTTP status.
func StatusFor(err error) int {
	switch insureAuth.KindOf(err) {
	case insureAuth.KindValidation, insureAuth.KindConflict, insureAuth.KindNotFound:
		return http.StatusBadRequest
	case insureAuth.KindUnauthorized:
		return http.StatusUnauthorized
	case insureAuth.KindForbidden:
		return http.StatusForbidden
	case insureAuth.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as {"error": msg} using StatusFor and the public
// message of err.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorStatus(w, StatusFor(err), insureAuth.PublicMessage(err))
}

func WriteErrorStatus(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
