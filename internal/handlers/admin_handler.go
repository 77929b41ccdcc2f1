package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sinc-lab/institute-service/internal/services"
	"github.com/sinc-lab/institute-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	accounts services.AccountService
	content  services.ContentService
}

func NewAdminHandler(accounts services.AccountService, content services.ContentService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		accounts:    accounts,
		content:     content,
	}
}

// ListPendingStaff returns the staff-verification queue.
// @Router /api/admin/staff/pending [get]
func (h *AdminHandler) ListPendingStaff(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	filters := parseAccountFilters(c)
	h.LogRequest(c, "Listing pending staff", "admin_id", userID)

	list, err := h.accounts.ListPendingStaff(c.Request.Context(), userID, filters)
	if err != nil {
		h.RespondError(c, err, "Failed to list pending staff")
		return
	}

	page := (filters.Offset / max(filters.Limit, 1)) + 1
	c.JSON(http.StatusOK, gin.H{
		"accounts": list.Accounts,
		"total":    list.Total,
		"page":     page,
		"size":     filters.Limit,
	})
}

// ExportPendingStaff streams the verification queue as an xlsx workbook.
// @Router /api/admin/staff/export [get]
func (h *AdminHandler) ExportPendingStaff(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Exporting pending staff", "admin_id", userID)

	data, err := h.accounts.ExportPendingStaff(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err, "Failed to export pending staff")
		return
	}

	filename := fmt.Sprintf("pending-staff-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ListContent returns all content entries with their translations.
// @Router /api/admin/content [get]
func (h *AdminHandler) ListContent(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	entries, err := h.content.List(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err, "Failed to list content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": entries})
}

// UpsertContent creates or updates a content entry.
// @Router /api/admin/content [post]
func (h *AdminHandler) UpsertContent(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	var req services.ContentUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Upserting content entry", "admin_id", userID, "key", req.Key)

	entry, err := h.content.UpsertContent(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err, "Failed to upsert content")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpsertTranslation writes one localized value for a content key.
// @Router /api/admin/content/translations [post]
func (h *AdminHandler) UpsertTranslation(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return
	}

	var req services.TranslationUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Upserting translation", "admin_id", userID, "key", req.Key, "language", req.Language)

	if err := h.content.UpsertTranslation(c.Request.Context(), userID, &req); err != nil {
		h.RespondError(c, err, "Failed to upsert translation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": req.Key, "language": req.Language})
}

func parseAccountFilters(c *gin.Context) services.AccountFilters {
	page := 1
	size := 20

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	return services.AccountFilters{
		Limit:  size,
		Offset: (page - 1) * size,
		Query:  c.Query("q"),
	}
}
