package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinc-lab/institute-service/internal/services"
	"github.com/sinc-lab/institute-service/internal/utils"
)

// StaffHandler serves the public staff directory. No session is
// required; only verified members are ever listed.
type StaffHandler struct {
	BaseHandler
	accounts services.AccountService
}

func NewStaffHandler(accounts services.AccountService, logger utils.Logger) *StaffHandler {
	return &StaffHandler{
		BaseHandler: NewBaseHandler(logger),
		accounts:    accounts,
	}
}

// ListStaff returns one page of the directory, ordered by name.
// @Router /api/staff [get]
func (h *StaffHandler) ListStaff(c *gin.Context) {
	filters := parseAccountFilters(c)

	directory, err := h.accounts.ListVerifiedStaff(c.Request.Context(), filters)
	if err != nil {
		h.RespondError(c, err, "Failed to list staff")
		return
	}

	page := (filters.Offset / max(filters.Limit, 1)) + 1
	c.JSON(http.StatusOK, gin.H{
		"members": directory.Members,
		"total":   directory.Total,
		"page":    page,
		"size":    filters.Limit,
	})
}

// GetStaffMember returns a single directory entry.
// @Router /api/staff/:id [get]
func (h *StaffHandler) GetStaffMember(c *gin.Context) {
	member, err := h.accounts.GetVerifiedStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondError(c, err, "Failed to load staff member")
		return
	}

	c.JSON(http.StatusOK, member)
}
