package mycontext

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the trace context (used by mylog)
type CtxTraceContext struct{}

// CtxClientIP is a context key for the address of the calling browser
type CtxClientIP struct{}

// ContextFromHTTPRequest derives a context that carries the gcloud trace of the request.
// It is derived from the request context so that cancellation propagates to gateway calls.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	var trace string

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	traceContext := r.Header.Get("X-Cloud-Trace-Context")
	traceParts := strings.Split(traceContext, "/")

	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		trace = fmt.Sprintf("projects/%s/traces/%s", projectID, traceParts[0])
	}

	c := context.WithValue(r.Context(), CtxTraceContext{}, trace)
	return context.WithValue(c, CtxClientIP{}, clientIP(r))
}

// ClientIPFromContext falls back to the loopback address outside of a request.
func ClientIPFromContext(c context.Context) string {
	ip, ok := c.Value(CtxClientIP{}).(string)
	if !ok || ip == "" {
		return "127.0.0.1"
	}
	return ip
}

func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
