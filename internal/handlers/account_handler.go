package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/services"
	"github.com/sinc-lab/institute-service/internal/utils"
)

type AccountHandler struct {
	BaseHandler
	accounts services.AccountService
}

func NewAccountHandler(accounts services.AccountService, logger utils.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler: NewBaseHandler(logger),
		accounts:    accounts,
	}
}

// CompleteRegistration applies the registration form for the session user.
// @Router /api/users/complete-registration [post]
func (h *AccountHandler) CompleteRegistration(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	var req services.CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Completing registration", "user_id", userID, "is_staff", req.IsStaff)

	account, err := h.accounts.CompleteRegistration(c.Request.Context(), userID, userID, &req)
	if err != nil {
		h.RespondError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusOK, account)
}

// VerifyStaff applies an administrator's staff-verification decision.
// @Router /api/users/verify-staff [post]
func (h *AccountHandler) VerifyStaff(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	var req services.VerifyStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Deciding staff verification", "admin_id", userID, "target_id", req.UserID, "action", req.Action)

	account, err := h.accounts.DecideStaffVerification(c.Request.Context(), userID, req.UserID, services.VerificationAction(req.Action))
	if err != nil {
		h.RespondError(c, err, "Failed to update verification status")
		return
	}

	c.JSON(http.StatusOK, account)
}

// RequestDeletion records a self-service account deletion request.
// @Router /api/users/request-deletion [post]
func (h *AccountHandler) RequestDeletion(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Requesting account deletion", "user_id", userID)

	account, err := h.accounts.RequestDeletion(c.Request.Context(), userID, userID)
	if err != nil {
		h.RespondError(c, err, "Deletion request failed")
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetLanguage returns the caller's language preference; anonymous callers
// get the default.
// @Router /api/users/language [get]
func (h *AccountHandler) GetLanguage(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	language, err := h.accounts.GetLanguage(c.Request.Context(), userID)
	if err != nil {
		// Degrade to the default rather than failing the read.
		h.LogError(c, err, "Language fetch failed, using default")
		c.JSON(http.StatusOK, gin.H{"language": models.DefaultLanguage})
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": language})
}

// SetLanguage stores the caller's language preference.
// @Router /api/users/language [post]
func (h *AccountHandler) SetLanguage(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	var req struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	language, ok := models.ParseLanguage(req.Language)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: "Unsupported language code",
			Details: req.Language,
		})
		return
	}

	if err := h.accounts.SetLanguage(c.Request.Context(), userID, userID, language); err != nil {
		h.RespondError(c, err, "Language update failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": language})
}

// Me returns the session projection of the caller's account.
// @Router /api/users/me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	view, err := h.accounts.SessionView(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err, "Failed to load session")
		return
	}

	c.JSON(http.StatusOK, view)
}
