package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Maxx-Protein/compliance-companion/internal/domain"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

// ContextKeyClaims holds the verified *service.Claims of the caller.
const ContextKeyClaims = "claims"

const bearerScheme = "bearer"

// AuthMiddleware verifies the bearer token issued by the identity provider.
// Every record the API touches is scoped to the seller named in the token.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "missing or invalid authorization header")
			return
		}
		claims, err := authService.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		SetClaims(c, claims)
		c.Next()
	}
}

// bearerToken extracts the credentials of an RFC 6750 bearer header. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}

// SetClaims stores verified claims on the context.
func SetClaims(c *gin.Context, claims *service.Claims) {
	c.Set(ContextKeyClaims, claims)
}

// GetClaims returns the verified claims of the caller.
func GetClaims(c *gin.Context) (*service.Claims, error) {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, domain.ErrUnauthorized
	}
	claims, ok := val.(*service.Claims)
	if !ok || claims == nil {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// GetUserID returns the seller the request is scoped to.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return claims.UserID, nil
}
