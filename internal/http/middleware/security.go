package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures the hardening headers applied to every response.
type SecurityOptions struct {
	// HSTSMaxAgeSeconds sets Strict-Transport-Security max-age. Zero disables
	// the header entirely. It is only emitted on HTTPS requests.
	HSTSMaxAgeSeconds int
	// HSTSIncludeSubdomains appends includeSubDomains to the HSTS header.
	HSTSIncludeSubdomains bool
	// ContentSecurityPolicy overrides the default restrictive CSP when
	// non-empty.
	ContentSecurityPolicy string
	// FrameOptions overrides X-Frame-Options (default DENY).
	FrameOptions string
	// ReferrerPolicy overrides Referrer-Policy (default no-referrer).
	ReferrerPolicy string
}

// SecurityHeaders sets conservative security headers on every response.
// The hub serves no HTML, so the default CSP denies everything.
func SecurityHeaders(opts SecurityOptions) gin.HandlerFunc {
	csp := opts.ContentSecurityPolicy
	if csp == "" {
		csp = "default-src 'none'; frame-ancestors 'none'"
	}
	frame := opts.FrameOptions
	if frame == "" {
		frame = "DENY"
	}
	referrer := opts.ReferrerPolicy
	if referrer == "" {
		referrer = "no-referrer"
	}

	var hsts string
	if opts.HSTSMaxAgeSeconds > 0 {
		hsts = "max-age=" + strconv.Itoa(opts.HSTSMaxAgeSeconds)
		if opts.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", frame)
		h.Set("Referrer-Policy", referrer)
		h.Set("Content-Security-Policy", csp)
		if hsts != "" && isHTTPS(c) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

// isHTTPS reports whether the request arrived over TLS, directly or via a
// forwarding proxy.
func isHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
