package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/todoagent"
	"pkt.systems/todoagent/core"
	"pkt.systems/todoagent/httpapi"
	"pkt.systems/todoagent/internal/appconfig"
	"pkt.systems/todoagent/internal/store"
	"pkt.systems/todoagent/schema"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var inMemory bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the todoagent server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if inMemory {
				cfg.Database.InMemory = true
			}

			var todoStore core.Store
			if cfg.Database.InMemory {
				logger.Info("todo store selected", "store", "memory")
				todoStore = store.NewMemory()
			} else {
				logger.Info("todo store selected", "store", "sqlite", "path", cfg.Database.Path)
				sqlite, err := store.OpenSQLite(cfg.Database.Path)
				if err != nil {
					return err
				}
				todoStore = sqlite
			}

			serverCfg := todoagent.ServerConfig{
				Service: schema.ServiceConfig{
					HistoryLimit: cfg.Service.HistoryLimit,
					SearchLimit:  cfg.Service.SearchLimit,
				},
				HTTP: httpapi.Config{
					Addr:                cfg.HTTP.Addr,
					AllowedOrigins:      cfg.HTTP.AllowedOrigins,
					MaxMessageBytes:     cfg.HTTP.MaxMessageBytes,
					WriteTimeoutSeconds: cfg.HTTP.WriteTimeoutSeconds,
					HistoryLimit:        cfg.Service.HistoryLimit,
				},
			}
			server, err := todoagent.New(serverCfg, todoagent.ServerDeps{
				Store:  todoStore,
				Logger: logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			logger.Info("http server listening", "addr", serverCfg.HTTP.Addr)
			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "use an in-memory todo store")
	return cmd
}
