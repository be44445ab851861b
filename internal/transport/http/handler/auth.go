package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"synapnote/internal/app"
	"synapnote/internal/transport/http/middleware"
	"synapnote/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	err := h.authService.SignUp(c.Request.Context(), app.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		case errors.Is(err, app.ErrUserExists):
			response.Fail(c, http.StatusBadRequest, "User already exist")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Error While Creating User", err)
		}
		return
	}

	response.OK(c, http.StatusCreated, "User created successfully", nil)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	err := h.authService.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Fail(c, http.StatusBadRequest, "User doesn't exist")
		case errors.Is(err, app.ErrAlreadyVerified):
			response.Fail(c, http.StatusBadRequest, "User already verified")
		case errors.Is(err, app.ErrOTPExpired):
			response.Fail(c, http.StatusBadRequest, "OTP Expired")
		case errors.Is(err, app.ErrInvalidOTP):
			response.Fail(c, http.StatusBadRequest, "Invalid OTP")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Error While Verifying User", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "User verified successfully", nil)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	result, err := h.authService.SignIn(app.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "User doesn't exist")
		case errors.Is(err, app.ErrNotVerified):
			response.Fail(c, http.StatusForbidden, "User is not verified")
		case errors.Is(err, app.ErrInvalidCredential):
			response.Fail(c, http.StatusUnauthorized, "Invalid Password")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Error While Logging In User", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "User logged in successfully", gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":    result.User.ID,
			"name":  result.User.Name,
			"email": result.User.Email,
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	response.OK(c, http.StatusOK, "ok", gin.H{
		"user": gin.H{
			"id":    userID,
			"name":  c.GetString(middleware.ContextNameKey),
			"email": c.GetString(middleware.ContextEmailKey),
		},
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "User doesn't exist")
		case errors.Is(err, app.ErrNotVerified):
			response.Fail(c, http.StatusForbidden, "User is not verified")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Error While Sending Password Reset Email", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Email sent successfully", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	err := h.authService.ResetPassword(req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "User doesn't exist")
		case errors.Is(err, app.ErrResetTokenExpired):
			response.Fail(c, http.StatusBadRequest, "Password reset token expired")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Error While Resetting Password", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Password reset successfully", nil)
}
