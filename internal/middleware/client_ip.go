package middleware

import (
	"net"

	"github.com/labstack/echo/v4"
)

// ClientIPExtractor decides what c.RealIP() returns. With no trusted
// proxies the TCP peer address is used and forwarding headers are ignored.
// Otherwise X-Forwarded-For is honoured only for hops inside the given
// CIDRs.
func ClientIPExtractor(trustedProxies []string) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		options = append(options, echo.TrustIPRange(network))
	}

	return echo.ExtractIPFromXFFHeader(options...)
}
