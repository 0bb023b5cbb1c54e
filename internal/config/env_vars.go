package config

import (
	"fmt"
	"strings"
	"time"
)

func (v *Values) GetPort() string {
	port := v.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

// GetBaseURL is the local address the quickstart is reachable on.
func (v *Values) GetBaseURL() string {
	return "http://localhost" + v.GetPort()
}

func (v *Values) GetAppName() string {
	return v.AppName
}

func (v *Values) GetEnv() string {
	if v.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(v.Env)
}

func (v *Values) GetLogLevel() string {
	return v.LogLevel
}

func (v *Values) GetSessionSecret() string {
	return v.SessionSecret
}

// GetHTTPTimeout is the timeout for outbound provider calls. Zero means none.
func (v *Values) GetHTTPTimeout() time.Duration {
	return v.HTTPTimeout
}
