package middleware

import (
	"net/http"
	"strings"

	"invito/services"

	"github.com/gin-gonic/gin"
)

// GrantKey is the gin context key holding the resolved *models.AccessGrant.
const GrantKey = "access_grant"

// grantToken pulls the guest credential from the request: a bearer token, a
// scanned QR code passed as ?qr=, or a plain ?token= query parameter.
func grantToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if qr := c.Query("qr"); qr != "" {
		return qr
	}
	return c.Query("token")
}

// AccessGrant resolves the caller's token to an access grant and aborts with
// 401 when none can be resolved.
func AccessGrant(access *services.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := grantToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": services.ErrCredentialMissing.Error()})
			return
		}

		grant, err := access.ResolveToken(token)
		if err != nil {
			status := http.StatusUnauthorized
			message := services.ErrCredentialNotFound.Error()
			if err != services.ErrCredentialMissing && err != services.ErrCredentialNotFound {
				status = http.StatusInternalServerError
				message = "failed to resolve access token"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": message})
			return
		}

		c.Set(GrantKey, grant)
		c.Next()
	}
}

// OptionalAccessGrant resolves a grant when a token is supplied but lets
// anonymous callers through. Used on public leaderboard reads.
func OptionalAccessGrant(access *services.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := grantToken(c)
		if token != "" {
			if grant, err := access.ResolveToken(token); err == nil {
				c.Set(GrantKey, grant)
			}
		}
		c.Next()
	}
}
