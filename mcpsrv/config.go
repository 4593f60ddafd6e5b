package mcpsrv

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/gemtui/config"
)

const (
	defaultRPS   = 2
	defaultBurst = 5
)

// StreamableOptions maps the bridge settings onto the SDK transport options.
func StreamableOptions(cfg config.MCPConfig) *mcp.StreamableHTTPOptions {
	return &mcp.StreamableHTTPOptions{
		Stateless:      cfg.Stateless,
		SessionTimeout: cfg.SessionTimeout,
	}
}

// ServerOptionsFrom derives tool gating from the bridge settings. Admin tools
// need both the flag and a key.
func ServerOptionsFrom(cfg config.MCPConfig) *ServerOptions {
	return &ServerOptions{
		EnableAdmin: cfg.EnableAdmin && cfg.APIKey != "",
		APIKey:      cfg.APIKey,
	}
}

func limits(cfg config.MCPConfig) (float64, int) {
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	return rps, burst
}
