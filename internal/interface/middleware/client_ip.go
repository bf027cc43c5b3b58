package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// remoteIPHeaders are read in order, and only when the direct peer is a trusted proxy.
var remoteIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// TrustProxies lets the listed proxies (IPs or CIDRs) report the client address.
// With an empty list no header is trusted and the peer address is used.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.RemoteIPHeaders = remoteIPHeaders
	return r.SetTrustedProxies(proxies)
}

// RealIP stores the client address as real_ip.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

// AllowPrivateIP bypasses rate limits for loopback and private networks (scrapers, sidecars).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}
