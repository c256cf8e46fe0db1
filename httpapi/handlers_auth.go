package httpapi

import (
	"errors"
	"net/http"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/middleware"
	"github.com/MrEthical07/insureAuth/validate"
)

type sessionResponse struct {
	Message string              `json:"message,omitempty"`
	User    insureAuth.Identity `json:"user"`
	Token   string              `json:"token"`
}

type sendOTPResponse struct {
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validate.Signup(validate.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Income:   req.Income,
		Password: req.secret(),
	}); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	sess, err := s.engine.Signup(r.Context(), insureAuth.SignupRequest{
		Name:   req.Name,
		Email:  req.Email,
		Age:    int(req.Age),
		Income: req.Income,
		Secret: req.secret(),
		Role:   insureAuth.Role(req.Role),
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, sessionResponse{User: sess.Identity, Token: sess.Token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !s.decode(w, r, &req) {
		return
	}
	if err := validate.Login(validate.LoginInput{Email: req.Email, Password: req.secret()}); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	sess, err := s.engine.Login(r.Context(), insureAuth.LoginRequest{Email: req.Email, Secret: req.secret()})
	if errors.Is(err, insureAuth.ErrIncorrectPassword) {
		// Clients of this API expect 400 rather than 401 here.
		middleware.WriteErrorStatus(w, http.StatusBadRequest, insureAuth.ErrIncorrectPassword.Error())
		return
	}
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.setTokenCookie(w, sess.Token, sess.ExpiresIn)
	middleware.WriteJSON(w, http.StatusOK, sessionResponse{
		Message: "Login successful",
		User:    sess.Identity,
		Token:   sess.Token,
	})
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		middleware.WriteErrorStatus(w, http.StatusBadRequest, "Email is required.")
		return
	}

	res, err := s.engine.SendCode(r.Context(), req.Email)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, sendOTPResponse{Message: "OTP sent successfully.", OTP: res.Code})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.OTP == "" {
		middleware.WriteErrorStatus(w, http.StatusBadRequest, "Email and otp is required.")
		return
	}

	if err := s.engine.VerifyCode(r.Context(), req.Email, string(req.OTP)); err != nil {
		// Wrong codes are reported under "message".
		if errors.Is(err, insureAuth.ErrWrongCode) {
			middleware.WriteJSON(w, http.StatusBadRequest, messageResponse{Message: insureAuth.PublicMessage(err)})
			return
		}
		s.writeFailure(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "OTP Verified Successfully"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		middleware.WriteErrorStatus(w, http.StatusBadRequest, "Email is required.")
		return
	}
	if !validate.Password(req.secret()) {
		s.writeFailure(w, r, validate.ErrPassword)
		return
	}

	if err := s.engine.ForgotPassword(r.Context(), req.Email, req.secret()); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully!"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth, _ := middleware.AuthResultFromContext(r.Context())

	if err := s.engine.Logout(r.Context(), auth.Token); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.clearTokenCookie(w)
	middleware.WriteJSON(w, http.StatusOK, messageResponse{Message: "User logged out successfully"})
}
