package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sipproxy.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_DefaultsWhenTransportsOmitted(t *testing.T) {
	path := writeTemp(t, `[proxy]
log_level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Proxy.LogLevel)
	assert.Equal(t, DefaultTransports, cfg.Proxy.Transports)
}

func TestLoad_DefaultsLogLevelToInfo(t *testing.T) {
	path := writeTemp(t, `[proxy]
transports = ["sip:0.0.0.0:5060"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Proxy.LogLevel)
}

func TestListeners_NoTransportParamBindsUDPAndTCP(t *testing.T) {
	cfg := &Config{Proxy: ProxySection{Transports: []string{"sip:0.0.0.0:5060"}}}
	listeners, err := cfg.Listeners()
	require.NoError(t, err)
	require.Len(t, listeners, 2)
	assert.Equal(t, Listener{Network: "udp", Addr: "0.0.0.0:5060"}, listeners[0])
	assert.Equal(t, Listener{Network: "tcp", Addr: "0.0.0.0:5060"}, listeners[1])
}

func TestListeners_SipsDefaultsToTLSOn5061(t *testing.T) {
	cfg := &Config{Proxy: ProxySection{Transports: []string{"sips:proxy.example.com"}}}
	listeners, err := cfg.Listeners()
	require.NoError(t, err)
	require.Len(t, listeners, 1)
	assert.Equal(t, Listener{Network: "tls", Addr: "proxy.example.com:5061"}, listeners[0])
}

func TestListeners_ExplicitTransportParamBindsExactlyOne(t *testing.T) {
	cfg := &Config{Proxy: ProxySection{Transports: []string{"sip:0.0.0.0:5070;transport=tcp"}}}
	listeners, err := cfg.Listeners()
	require.NoError(t, err)
	require.Len(t, listeners, 1)
	assert.Equal(t, Listener{Network: "tcp", Addr: "0.0.0.0:5070"}, listeners[0])
}

func TestListeners_RejectsNonSipScheme(t *testing.T) {
	cfg := &Config{Proxy: ProxySection{Transports: []string{"tel:+12125550101"}}}
	_, err := cfg.Listeners()
	assert.Error(t, err)
}
