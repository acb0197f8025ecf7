package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("mints an identifier when none is supplied", func(t *testing.T) {
		router := gin.New()
		router.Use(CorrelationID())

		var seen string
		router.GET("/", func(c *gin.Context) {
			seen = GetCorrelationID(c)
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, rr.Header().Get(CorrelationIDHeader))
	})

	t.Run("honors the caller's identifier", func(t *testing.T) {
		router := gin.New()
		router.Use(CorrelationID())

		var seen string
		router.GET("/", func(c *gin.Context) {
			seen = GetCorrelationID(c)
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CorrelationIDHeader, "caller-supplied")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, "caller-supplied", seen)
		assert.Equal(t, "caller-supplied", rr.Header().Get(CorrelationIDHeader))
	})
}

func TestGetCorrelationID_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, "", GetCorrelationID(c))
}
