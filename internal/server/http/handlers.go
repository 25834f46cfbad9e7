package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
)

// bind decodes the JSON body into req and applies its rules. It writes the
// 400 response itself and reports whether the handler may continue. An empty
// body decodes to the zero request.
func bind(c *gin.Context, req validation.Validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{Message: msgMalformedBody})
		return false
	}
	if err := req.Validate(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
		return false
	}
	return true
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	msg, err := s.auth.Register(c.Request.Context(), req.Email, req.Password, req.ConfirmationPassword)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, messageResponse{Message: msg})
}

func (s *HTTPServer) verify(c *gin.Context) {
	var req verifyRequest
	if !bind(c, &req) {
		return
	}
	msg, err := s.auth.Verify(c.Request.Context(), req.Email, string(req.VerificationCode))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (s *HTTPServer) resend(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	msg, err := s.auth.ResendVerification(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (s *HTTPServer) forgotPassword(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	msg, err := s.auth.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (s *HTTPServer) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bind(c, &req) {
		return
	}
	msg, err := s.auth.ResetPassword(c.Request.Context(), req.Email, string(req.Code), req.NewPassword, req.ConfirmationNewPassword)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (s *HTTPServer) logout(c *gin.Context) {
	msg, err := s.auth.Logout(c.Request.Context(), claimsFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (s *HTTPServer) me(c *gin.Context) {
	u, err := s.auth.Me(c.Request.Context(), claimsFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meResponse{ID: u.ID, Email: u.Email, EmailVerified: u.EmailVerified})
}
