package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	insureAuth "github.com/MrEthical07/insureAuth"
	"github.com/MrEthical07/insureAuth/middleware"
	"github.com/MrEthical07/insureAuth/validate"
)

// credentials accepts the secret as "password" or "secret".
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Secret   string `json:"secret"`
}

func (c credentials) secret() string {
	if c.Password != "" {
		return c.Password
	}
	return c.Secret
}

type signupRequest struct {
	credentials
	Name   string  `json:"name"`
	Age    float64 `json:"age"`
	Income float64 `json:"income"`
	Role   string  `json:"role"`
}

type profileRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Age    float64 `json:"age"`
	Income float64 `json:"income"`
}

type otpRequest struct {
	Email string  `json:"email"`
	OTP   otpCode `json:"otp"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

// otpCode decodes a one-time code sent either as a JSON string or number.
type otpCode string

func (c *otpCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = otpCode(s)
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return fmt.Errorf("otp must be a string or an integer: %w", err)
	}
	*c = otpCode(strconv.FormatUint(n, 10))
	return nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("malformed request body")
		middleware.WriteError(w, insureAuth.ErrInvalidInput)
		return false
	}
	return true
}

// writeFailure reports validation failures with their field message and
// everything else through the engine error mapping.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		middleware.WriteErrorStatus(w, http.StatusBadRequest, verr.Msg)
		return
	}

	status := middleware.StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	middleware.WriteErrorStatus(w, status, insureAuth.PublicMessage(err))
}

type messageResponse struct {
	Message string `json:"message"`
}
