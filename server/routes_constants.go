package server

import "github.com/jrsteele09/hubspot-oauth-quickstart/internal/config"

// Route path constants
const (
	RouteIndex         = "/"
	RouteInstall       = "/install"
	RouteOAuthCallback = config.RouteOAuthCallback
	RouteError         = "/error"
	RouteMetrics       = "/metrics"
)
