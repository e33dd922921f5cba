package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/az-ai-labs/ru-numtext/internal/config"
	"github.com/az-ai-labs/ru-numtext/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host  string
		port  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve exposes conversion, parsing and date extraction over HTTP.

Endpoints:
  GET  /health
  POST /v1/convert     {"text": "..."}
  POST /v1/parse       {"words": [...]} or {"phrase": "..."}
  GET  /v1/words/:word
  POST /v1/dates       {"text": "...", "ref": "2026-02-20T00:00:00Z"}

With --watch the config file is reloaded on change: the log level and the
converter settings take effect without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv(gin.EnvGinMode) == "" {
				gin.SetMode(gin.ReleaseMode)
			}

			cfg := a.manager.Get()
			sc := cfg.Server
			if host != "" {
				sc.Host = host
			}
			if port != "" {
				sc.Port = port
			}

			srv, err := server.New(server.Config{
				Host:            sc.Host,
				Port:            sc.Port,
				RateLimit:       sc.RateLimit,
				RateBurst:       sc.RateBurst,
				MaxBodyBytes:    sc.MaxBodyBytes,
				ShutdownTimeout: sc.ShutdownTimeout,
				Converter:       a.converter(),
				Logger:          a.logger,
			})
			if err != nil {
				return err
			}

			if watch && a.manager.File() != "" {
				a.manager.OnChange(func(c *config.Config) {
					a.setLevel(c)
					srv.SetConverter(a.converter())
					a.logger.Info("configuration reloaded", "file", a.manager.File())
				})
				a.manager.WatchConfig()
			}

			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "bind address (overrides server.host)")
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides server.port)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the config file on change")
	return cmd
}
