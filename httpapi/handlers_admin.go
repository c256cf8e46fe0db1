package httpapi

import (
	"net/http"
	"time"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/middleware"
)

type revocationResponse struct {
	Revoked   bool                        `json:"revoked"`
	Reason    insureAuth.RevocationReason `json:"reason,omitempty"`
	RevokedAt *time.Time                  `json:"revokedAt,omitempty"`
}

func (s *Server) handleAdminRevoke(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.AuthResultFromContext(r.Context())

	var req tokenRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Token == "" {
		middleware.WriteErrorStatus(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := s.engine.AdminRevoke(r.Context(), admin, req.Token); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "Token revoked"})
}

func (s *Server) handleRevocationStatus(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Token == "" {
		middleware.WriteErrorStatus(w, http.StatusBadRequest, "token is required")
		return
	}

	info, err := s.engine.RevocationDetails(r.Context(), req.Token)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	out := revocationResponse{}
	if info != nil {
		out.Revoked = true
		out.Reason = info.Reason
		at := info.RevokedAt.UTC()
		out.RevokedAt = &at
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.engine.Health(r.Context())
	status := http.StatusOK
	if !h.Healthy() {
		status = http.StatusServiceUnavailable
	}
	middleware.WriteJSON(w, status, h)
}
