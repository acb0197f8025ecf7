package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader carries the request identifier between services
const CorrelationIDHeader = "X-Correlation-ID"

// contextKeyCorrelationID stores the identifier in the gin context for
// handlers and the response envelope
const contextKeyCorrelationID = "correlation_id"

// CorrelationID tags every request with an identifier, honoring one supplied
// by the caller and minting a fresh UUID otherwise. The identifier is echoed
// back in the response header.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(CorrelationIDHeader, id)
		c.Set(contextKeyCorrelationID, id)

		c.Next()
	}
}

// GetCorrelationID returns the request's identifier, or "" when the
// middleware has not run
func GetCorrelationID(c *gin.Context) string {
	id, _ := c.Get(contextKeyCorrelationID)
	s, _ := id.(string)
	return s
}
