package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Context keys for client metadata.
type contextKeyClientIP struct{}
type contextKeyClientAgent struct{}

// ClientAgent is the parsed User-Agent summary attached to audit events.
type ClientAgent struct {
	Browser string
	OS      string
	Mobile  bool
	Raw     string
}

// ClientMetadata extracts the client IP address and a parsed User-Agent from
// the request and adds them to the context for handlers and the audit trail.
// Apply early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyClientIP{}, ClientIPFromRequest(r))
		ctx = context.WithValue(ctx, contextKeyClientAgent{}, parseAgent(r.Header.Get("User-Agent")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseAgent(raw string) ClientAgent {
	if raw == "" {
		return ClientAgent{}
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	return ClientAgent{
		Browser: strings.TrimSpace(browser + " " + version),
		OS:      ua.OS(),
		Mobile:  ua.Mobile(),
		Raw:     raw,
	}
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return ip
	}
	return ""
}

// GetClientAgent retrieves the parsed User-Agent from the context.
func GetClientAgent(ctx context.Context) ClientAgent {
	if agent, ok := ctx.Value(contextKeyClientAgent{}).(ClientAgent); ok {
		return agent
	}
	return ClientAgent{}
}

// WithClientMetadata injects client IP and User-Agent into a context.
// Useful for service unit tests that don't run the full HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, rawAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	ctx = context.WithValue(ctx, contextKeyClientAgent{}, parseAgent(rawAgent))
	return ctx
}

// ClientIPFromRequest extracts the real client IP, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...);
	// the first is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" ("[::1]:port" for IPv6).
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return strings.Trim(addr[:idx], "[]")
		}
		return addr
	}
	return ""
}
