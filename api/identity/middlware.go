package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/glade/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextUserClaims is the key used to store user claims in the Gin context.
	ContextUserClaims = "userClaims"
	// ContextPlayer is the key used to store the authenticated i.Player in the Gin context.
	ContextPlayer = "player"
)

// Authoriz rejects requests without a valid bearer token and attaches the player to the context.
// Browsers cannot set headers on websocket upgrades, so the token may also come as ?token=.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		claims, err := ts.Decode(token)
		if err != nil {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		idClaim, _ := claims["userID"].(string)
		id, err := uuid.Parse(idClaim)
		if err != nil {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)

		// Attach user claims to the request context for further use.
		c.Set(ContextUserClaims, claims)
		c.Set(ContextPlayer, i.Player{ID: id, Username: username})
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		q := c.Query("token")
		return q, q != ""
	}

	// Split the "Bearer" prefix from the token.
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// PlayerFrom returns the player attached by Authoriz.
func PlayerFrom(c *gin.Context) (i.Player, bool) {
	v, ok := c.Get(ContextPlayer)
	if !ok {
		return i.Player{}, false
	}
	p, ok := v.(i.Player)
	return p, ok
}
