package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sinc-lab/institute-service/internal/config"
	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/services"
	"github.com/sinc-lab/institute-service/internal/utils"
)

type HandlerManager struct {
	accountHandler *AccountHandler
	contentHandler *ContentHandler
	staffHandler   *StaffHandler
	adminHandler   *AdminHandler
	authMiddleware *CasdoorAuthMiddleware
	routeGuard     *RouteGuard
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	accounts := serviceManager.Account()
	content := serviceManager.Content()

	return &HandlerManager{
		accountHandler: NewAccountHandler(accounts, logger),
		contentHandler: NewContentHandler(content, logger),
		staffHandler:   NewStaffHandler(accounts, logger),
		adminHandler:   NewAdminHandler(accounts, content, logger),
		authMiddleware: NewCasdoorAuthMiddleware(casdoorConfig, accounts),
		routeGuard:     NewRouteGuard(),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "institute-service",
		})
	})

	// Public content: anonymous reads allowed, language from session
	// when one exists.
	router.GET("/api/content", hm.contentHandler.GetContent)

	// Public staff directory: verified members only.
	staff := router.Group("/api/staff")
	{
		staff.GET("", hm.staffHandler.ListStaff)
		staff.GET("/:id", hm.staffHandler.GetStaffMember)
	}

	// User self-service routes
	users := router.Group("/api/users")
	{
		// Anonymous reads resolve the default language.
		users.GET("/language", hm.authMiddleware.OptionalAuthMiddleware(), hm.accountHandler.GetLanguage)

		authed := users.Group("")
		authed.Use(hm.authMiddleware.AuthMiddleware())
		{
			authed.POST("/complete-registration", hm.accountHandler.CompleteRegistration)
			authed.POST("/verify-staff", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.accountHandler.VerifyStaff)
			authed.POST("/request-deletion", hm.accountHandler.RequestDeletion)
			authed.POST("/language", hm.accountHandler.SetLanguage)
			authed.GET("/me", hm.accountHandler.Me)
		}
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
	{
		admin.GET("/staff/pending", hm.adminHandler.ListPendingStaff)
		admin.GET("/staff/export", hm.adminHandler.ExportPendingStaff)
		admin.GET("/content", hm.adminHandler.ListContent)
		admin.POST("/content", hm.adminHandler.UpsertContent)
		admin.POST("/content/translations", hm.adminHandler.UpsertTranslation)
	}

	// Protected page prefixes answered with guard redirects. The pages
	// themselves are rendered elsewhere; this service owns the access
	// decision.
	for _, prefix := range []string{"/dashboard", "/profile", "/admin"} {
		group := router.Group(prefix)
		group.Use(hm.authMiddleware.OptionalAuthMiddleware(), hm.routeGuard.Middleware())
		group.GET("/*path", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}
}
