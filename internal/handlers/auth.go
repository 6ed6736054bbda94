package handlers

import (
	"errors"
	"net/http"

	"ecogo/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

// SignUpRequest is the sign-up payload.
type SignUpRequest struct {
	Email       string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password    string `json:"password" binding:"required,min=6" example:"s3cret!"`
	DisplayName string `json:"display_name,omitempty" example:"Asha"`
}

// SignInRequest is the sign-in payload.
type SignInRequest struct {
	Email    string `json:"email" binding:"required" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret!"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Sign up
// @Description  Creates an account and its initial data with default settings.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignUpRequest  true  "Credentials"
// @Success      200   {object}  map[string]interface{}  "id"
// @Failure      400   {object}  errorResponse
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input SignUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Email, input.Password, input.DisplayName)
	switch {
	case err == nil:
	case id > 0 && errors.Is(err, lifecycle.ErrPersistence):
		// The account exists; its data is created on first use.
		h.log.Warnw("auth_sign_up_seed_failed", "user_id", id, "err", err)
	default:
		h.log.Infow("auth_sign_up_failed", "email", input.Email, "err", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignInRequest  true  "Credentials"
// @Success      200   {object}  map[string]string  "token"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input SignInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(input.Email, input.Password)
	if err != nil {
		h.log.Infow("auth_sign_in_failed", "email", input.Email, "err", err)
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
