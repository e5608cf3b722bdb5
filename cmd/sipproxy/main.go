// Command sipproxy binds the transports named in a TOML config file and
// logs every parsed message, the same shape as the teacher's
// cmd/proxysip/main.go wired to this repository's framing-only transport
// binder instead of a transaction-aware server.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sipweave/sipcore/config"
	"github.com/sipweave/sipcore/sip"
	"github.com/sipweave/sipcore/transport"
)

func main() {
	configPath := flag.String("config", "sipproxy.toml", "path to proxy config (TOML)")
	metricsAddr := flag.String("metrics-addr", ":8080", "address for the /metrics HTTP endpoint")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05.000",
	}).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Proxy.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("log_level", cfg.Proxy.LogLevel).Msg("invalid log_level")
	}
	log = log.Level(level)
	if *debug {
		log = log.Level(zerolog.DebugLevel)
	}

	listeners, err := cfg.Listeners()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve configured transports")
	}

	metrics := transport.NewMetrics(prometheus.DefaultRegisterer)

	binder := transport.NewBinder(log, metrics, func(msg sip.Message) {
		log.Info().
			Str("transport", msg.Transport()).
			Str("source", msg.Source()).
			Str("short", msg.Short()).
			Msg("received message")
	})

	if err := binder.Bind(listeners); err != nil {
		log.Fatal().Err(err).Msg("failed to bind configured transports")
	}

	go serveMetrics(*metricsAddr, log)

	log.Info().Int("listeners", len(listeners)).Msg("sipproxy started")
	if err := binder.Serve(); err != nil {
		log.Fatal().Err(err).Msg("transport binder stopped")
	}
}

func serveMetrics(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	log.Info().Str("addr", addr).Msg("metrics server started")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
