package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/planwise/planwise/internal/common"
)

const userIDKey = "userID"

// extractToken looks for the access token in, order of preference, the
// Authorization header, the token query parameter, and a top-level "token"
// field of a JSON object body. The body fallback exists for older clients;
// the body is restored so handlers can still bind it.
func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return token
		}
	}

	if token := c.Query("token"); token != "" {
		return token
	}

	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var probe struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return probe.Token
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			writeError(c, common.ErrUnauthenticated)
			return
		}

		userID, err := s.users.VerifyToken(token)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
