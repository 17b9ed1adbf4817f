package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swiftcab/internal/channel"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Book a ride interactively on the terminal (default)",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfgFile)
	if err != nil {
		return err
	}
	defer a.Close()

	console := channel.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
	req, err := a.assistant.Run(ctx, console)
	if err != nil {
		return err
	}
	a.logger.Info("booking finalized",
		zap.String("source", req.Source),
		zap.String("destination", req.Destination),
		zap.Time("travel_time", req.TravelTime),
	)
	return nil
}
