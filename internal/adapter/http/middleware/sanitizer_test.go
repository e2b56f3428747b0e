package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoBody(c *gin.Context) {
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusRequestEntityTooLarge, "too large")
		return
	}
	c.String(http.StatusOK, string(b))
}

func TestMaxBodySize_Allowed(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodySize(1024))
	r.POST("/test", echoBody)

	body := []byte("hello world")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello world", w.Body.String())
}

func TestMaxBodySize_DeclaredLengthRejected(t *testing.T) {
	handlerCalled := false
	r := gin.New()
	r.Use(MaxBodySize(16))
	r.POST("/test", func(c *gin.Context) {
		handlerCalled = true
		c.String(http.StatusOK, "ok")
	})

	bigBody := []byte(strings.Repeat("A", 100))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(bigBody))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_003")
	assert.False(t, handlerCalled)
}

func TestMaxBodySize_StreamedBodyCut(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodySize(16))
	r.POST("/test", echoBody)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", io.NopCloser(strings.NewReader(strings.Repeat("A", 100))))
	req.ContentLength = -1
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "too large", w.Body.String())
}

func TestMaxBodySize_NilBody(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodySize(1024))
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaxBodySize_ExactLimit(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodySize(5))
	r.POST("/test", echoBody)

	body := []byte("12345")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}
