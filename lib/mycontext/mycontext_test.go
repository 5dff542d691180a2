package mycontext

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFromHTTPRequest(t *testing.T) {
	t.Run("With trace header", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "myproject")
		request, err := http.NewRequest(http.MethodGet, "/cart", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Cloud-Trace-Context", "105445aa7843bc8bf206b12000100000/1;o=1")

		c := ContextFromHTTPRequest(request)

		assert.Equal(t, "projects/myproject/traces/105445aa7843bc8bf206b12000100000", c.Value(CtxTraceContext{}))
	})

	t.Run("Without trace header", func(t *testing.T) {
		request, err := http.NewRequest(http.MethodGet, "/cart", nil)
		assert.NoError(t, err)

		c := ContextFromHTTPRequest(request)

		assert.Equal(t, "", c.Value(CtxTraceContext{}))
	})
}

func TestClientIP(t *testing.T) {
	t.Run("Forwarded", func(t *testing.T) {
		request, err := http.NewRequest(http.MethodGet, "/cart", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

		assert.Equal(t, "203.0.113.7", ClientIPFromContext(ContextFromHTTPRequest(request)))
	})

	t.Run("Remote address", func(t *testing.T) {
		request, err := http.NewRequest(http.MethodGet, "/cart", nil)
		assert.NoError(t, err)
		request.RemoteAddr = "192.0.2.1:51234"

		assert.Equal(t, "192.0.2.1", ClientIPFromContext(ContextFromHTTPRequest(request)))
	})

	t.Run("No request", func(t *testing.T) {
		assert.Equal(t, "127.0.0.1", ClientIPFromContext(context.Background()))
	})
}
