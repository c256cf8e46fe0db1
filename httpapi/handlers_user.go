package httpapi

import (
	"net/http"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/middleware"
	"github.com/MrEthical07/insureAuth/validate"
)

type profileResponse struct {
	Message string              `json:"message"`
	User    insureAuth.Identity `json:"user"`
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	auth, _ := middleware.AuthResultFromContext(r.Context())

	user, err := s.engine.Profile(r.Context(), auth)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	auth, _ := middleware.AuthResultFromContext(r.Context())

	var req profileRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validate.Profile(validate.ProfileInput(req)); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	user, err := s.engine.UpdateProfile(r.Context(), auth, insureAuth.ProfileUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Age:    int(req.Age),
		Income: req.Income,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, profileResponse{Message: "user account updated successfully", User: *user})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	auth, _ := middleware.AuthResultFromContext(r.Context())

	if err := s.engine.DeleteAccount(r.Context(), auth); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.clearTokenCookie(w)
	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "User account deleted successfully"})
}
