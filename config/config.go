// Package config loads the proxy front-end's TOML configuration (spec §6.2):
// log level and the set of transports to bind, each transport entry parsed
// through the core sip.Uri grammar rather than a bespoke scanner.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sipweave/sipcore/sip"
)

// Config is the on-disk shape of sipproxy.toml.
type Config struct {
	Proxy ProxySection `toml:"proxy"`
}

type ProxySection struct {
	LogLevel   string   `toml:"log_level"`
	Transports []string `toml:"transports"`
}

// DefaultTransports is the listener set sipproxy binds when the config file
// omits `proxy.transports` entirely (spec §6.2 "Defaults").
var DefaultTransports = []string{"sip:0.0.0.0:5060", "sip:[::]:5060"}

// Listener is one fully-resolved bind target, after applying the transport
// param / scheme defaulting rules spec §6.2 names.
type Listener struct {
	Network string // "udp", "tcp", "tls", "ws", "wss"
	Addr    string // host:port
}

// Load reads and decodes path, filling in LogLevel/Transports defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.Proxy.LogLevel == "" {
		cfg.Proxy.LogLevel = "info"
	}
	if len(cfg.Proxy.Transports) == 0 {
		cfg.Proxy.Transports = DefaultTransports
	}
	return &cfg, nil
}

// Listeners expands the configured transport URIs into concrete bind
// targets, per spec §6.2's materialization rules: a `sip:` URI with no
// `transport` param binds both UDP and TCP on its host:port (default port
// 5060); `sips:` binds TLS on port 5061 by default; an explicit `transport`
// param of udp/tcp/tls/ws/wss binds exactly that one network, and any other
// value binds UDP (TLS for a `sips:` URI).
func (c *Config) Listeners() ([]Listener, error) {
	var out []Listener
	for _, raw := range c.Proxy.Transports {
		u, err := sip.ParseURI(raw)
		if err != nil {
			return nil, fmt.Errorf("config: transport %q: %w", raw, err)
		}
		if u.Scheme != sip.SchemeSIP && u.Scheme != sip.SchemeSIPS {
			return nil, fmt.Errorf("config: transport %q: not a sip/sips URI", raw)
		}

		defaultPort := uint16(5060)
		if u.Scheme == sip.SchemeSIPS {
			defaultPort = 5061
		}
		port := defaultPort
		if u.HasPort {
			port = u.Port
		}
		addr := net.JoinHostPort(u.Host, strconv.Itoa(int(port)))

		if tp, ok := u.Transport(); ok {
			out = append(out, Listener{Network: normalizeNetwork(tp, u.Scheme), Addr: addr})
			continue
		}

		if u.Scheme == sip.SchemeSIPS {
			out = append(out, Listener{Network: "tls", Addr: addr})
			continue
		}
		out = append(out, Listener{Network: "udp", Addr: addr}, Listener{Network: "tcp", Addr: addr})
	}
	return out, nil
}

func normalizeNetwork(transportParam string, scheme sip.Scheme) string {
	switch strings.ToLower(transportParam) {
	case "udp":
		return "udp"
	case "tcp":
		return "tcp"
	case "tls":
		return "tls"
	case "ws":
		return "ws"
	case "wss":
		return "wss"
	default:
		if scheme == sip.SchemeSIPS {
			return "tls"
		}
		return "udp"
	}
}
