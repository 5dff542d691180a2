package myhttp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
)

func TestResponseWriter(t *testing.T) {
	writer := NewWriter(mylog.New("myhttp"))

	t.Run("Write error", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.WriteError(context.TODO(), response, 3, myerrors.NewNotFoundError(fmt.Errorf("product p1 not found")))

		assert.Equal(t, 404, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"ErrorCode":3,"Message":"status: 404, err: product p1 not found"}`, response.Body.String())
	})

	t.Run("Write success", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.Write(context.TODO(), response, http.StatusOK, SuccessResponse{Message: "ok"})

		assert.Equal(t, 200, response.Code)
		assert.JSONEq(t, `{"Message":"ok"}`, response.Body.String())
	})

	t.Run("Write no content", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.Write(context.TODO(), response, http.StatusNoContent, nil)

		assert.Equal(t, 204, response.Code)
		assert.Empty(t, response.Body.String())
	})
}

func TestHostnameWithScheme(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/cart", nil)
	request.Host = "localhost:8888"
	assert.Equal(t, "http://localhost:8888", HostnameWithScheme(request))

	request.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://localhost:8888", HostnameWithScheme(request))
}

func TestAddQueryParams(t *testing.T) {
	got, err := AddQueryParams("/cart?x=1", map[string]string{"status": "EmptyCart", "message": "cart is empty", "skip": ""})
	assert.NoError(t, err)
	assert.Equal(t, "/cart?message=cart+is+empty&status=EmptyCart&x=1", got)
}
