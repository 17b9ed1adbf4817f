package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	httptransport "swiftcab/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the booking conversation over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfgFile)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := httptransport.NewServer(httptransport.ServerDeps{
			Addr:     a.cfg.HTTP.Addr,
			Runner:   a.assistant,
			Sessions: a.sessions,
			Logger:   a.logger.Named("http"),
		})
		return srv.ListenAndServe(ctx)
	},
}
