package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/sinc-lab/institute-service/internal/config"
	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/services"
)

// CasdoorAuthMiddleware authenticates requests against the external
// identity provider and resolves them through the account lifecycle.
type CasdoorAuthMiddleware struct {
	client   *casdoorsdk.Client
	accounts services.AccountService
	config   config.CasdoorConfig
}

// NewCasdoorAuthMiddleware creates a new Casdoor authentication middleware
func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, accounts services.AccountService) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Application,
		cfg.Organization,
	)

	return &CasdoorAuthMiddleware{
		client:   client,
		accounts: accounts,
		config:   cfg,
	}
}

// AuthMiddleware returns a Gin middleware that requires a valid external
// token. Every authenticated request runs through the lifecycle resolver,
// so the first request with a fresh identity creates and binds the account,
// and an account whose staff claim is pending is refused a session here.
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "authorization header missing or malformed",
			})
			c.Abort()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: fmt.Sprintf("invalid token: %v", err),
			})
			c.Abort()
			return
		}

		result, err := cam.accounts.SignIn(c.Request.Context(), externalIdentityFromClaims(claims, token))
		if err != nil {
			// Ambiguous identity state is unauthorized, never
			// implicitly approved.
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "failed to resolve account",
			})
			c.Abort()
			return
		}

		if !result.Allowed {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "verification_pending",
				Message: "staff verification is pending; sign-in is not permitted",
				Details: gin.H{"redirect": result.RedirectTo},
			})
			c.Abort()
			return
		}

		account := result.Account
		c.Set("user_id", account.ID)
		c.Set("user", account)
		c.Set("user_role", account.Role)
		c.Set("user_email", account.Email)
		c.Set("account_state", result.State)

		c.Next()
	}
}

// OptionalAuthMiddleware resolves user info when a valid token is present
// and continues anonymously otherwise.
func (cam *CasdoorAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			c.Next()
			return
		}

		result, err := cam.accounts.SignIn(c.Request.Context(), externalIdentityFromClaims(claims, token))
		if err == nil && result.Allowed {
			account := result.Account
			c.Set("user_id", account.ID)
			c.Set("user", account)
			c.Set("user_role", account.Role)
			c.Set("user_email", account.Email)
			c.Set("account_state", result.State)
		}

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has required role
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "user role not found in context",
			})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "invalid user role format",
			})
			c.Abort()
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if role == requiredRole || role == models.RoleAdmin {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// externalIdentityFromClaims maps provider claims into the lifecycle input.
// The raw token rides along as opaque stored material.
func externalIdentityFromClaims(claims *casdoorsdk.Claims, token string) *services.ExternalIdentity {
	accessToken := token
	return &services.ExternalIdentity{
		Provider:          "casdoor",
		ProviderAccountID: claims.User.Id,
		Email:             claims.User.Email,
		Name:              claims.User.DisplayName,
		AvatarURL:         claims.User.Avatar,
		AccessToken:       &accessToken,
	}
}

// GetUserFromContext extracts the account from Gin context
func GetUserFromContext(c *gin.Context) (*models.Account, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	account, ok := user.(*models.Account)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return account, nil
}

// GetUserIDFromContext extracts the account ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}
