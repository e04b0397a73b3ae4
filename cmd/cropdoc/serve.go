package main

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/agrisense/cropdoc/internal/api"
	"github.com/agrisense/cropdoc/internal/diagnosis"
	"github.com/agrisense/cropdoc/internal/history"
	"github.com/agrisense/cropdoc/internal/model"
	"github.com/agrisense/cropdoc/internal/tunnel"
)

func serveCmd() *cli.Command {
	var (
		host           string
		port           int64
		readTimeout    time.Duration
		useTunnel      bool
		tunnelAgentURL string
	)

	flags := append(commonModelFlags(), samplingFlags()...)
	flags = append(flags, historyFlags()...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "host",
			Usage:       "listen host",
			Value:       "0.0.0.0",
			Destination: &host,
		},
		&cli.Int64Flag{
			Name:        "port",
			Usage:       "listen port",
			Value:       5000,
			Destination: &port,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "HTTP read header timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.BoolFlag{
			Name:        "tunnel",
			Usage:       "resolve a public URL from a local ngrok agent",
			Destination: &useTunnel,
		},
		&cli.StringFlag{
			Name:        "tunnel-agent",
			Usage:       "ngrok agent API address",
			Value:       tunnel.DefaultAgentURL,
			Destination: &tunnelAgentURL,
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the diagnosis REST API and dashboard",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := loadConfig()
			applyCommonConfig(c, cfg)
			if cfg.Host != "" && !c.IsSet("host") {
				host = cfg.Host
			}
			if cfg.Port != nil && !c.IsSet("port") {
				port = *cfg.Port
			}
			if cfg.UseTunnel != nil && !c.IsSet("tunnel") {
				useTunnel = *cfg.UseTunnel
			}
			if cfg.TunnelAgentURL != "" && !c.IsSet("tunnel-agent") {
				tunnelAgentURL = cfg.TunnelAgentURL
			}

			log := newLogger()
			gen := model.New(model.Config{
				ModelPath:   modelPath,
				ContextSize: int(contextSize),
				GPULayers:   int(gpuLayers),
			}, log)
			defer func() { _ = gen.Close() }()

			// Keep serving on load failure; health reports the model as
			// unloaded and diagnoses fail with an explicit message.
			if err := gen.Load(ctx); err != nil {
				log.Warn("model unavailable", "error", err)
			}

			tunnelURL := ""
			if useTunnel {
				url, err := tunnel.NewResolver(tunnelAgentURL).PublicURL(ctx)
				if err != nil {
					log.Warn("tunnel discovery failed", "error", err)
				} else {
					tunnelURL = url
					log.Info("tunnel established", "url", tunnelURL)
				}
			}

			hist := history.NewStore(int(historyLimit))
			service := diagnosis.NewService(gen, model.Params{
				MaxTokens:     int(maxTokens),
				Temperature:   temperature,
				TopP:          topP,
				RepeatPenalty: repeatPenalty,
			}, log)
			server := api.NewServer(service, hist, gen, api.Options{
				HistoryEnabled: enableHistory,
				AuthEnabled:    enableAuth,
				TunnelURL:      tunnelURL,
			}, log)

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(api.FaultHandler(log))
			server.Register(e)

			addr := net.JoinHostPort(host, strconv.FormatInt(port, 10))
			log.Info("starting server", "address", addr, "history", enableHistory)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
