package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marcelsud/whatsapp-relay/config"
	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/events"
	"github.com/marcelsud/whatsapp-relay/internal/wire"
	"github.com/marcelsud/whatsapp-relay/webhook"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

/* relayctl administers the relay's stored state without going through the
 * HTTP API: audit logs, the webhook destination and configuration checks.
 */

var (
	output string
	debug  bool

	cfg          *config.Config
	store        wire.Store
	destinations webhook.DestinationRepository
	publisher    events.Publisher

	logs     *eventlog.Service
	registry *webhook.RegistryService
	logger   zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "relayctl",
	Short:         "Admin CLI for the WhatsApp relay",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.GetConfig()
		if err != nil {
			return err
		}
		logger = zerolog.Nop()
		if debug {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		}
		if cmd.Annotations["store"] != "true" {
			return nil
		}
		return openStore()
	},
}

// closeAll releases whatever openStore managed to open
func closeAll(ctx context.Context) {
	if destinations != nil && destinations != store {
		destinations.Close(ctx)
	}
	if store != nil {
		store.Close(ctx)
	}
	if publisher != nil {
		publisher.Close()
	}
}

// needsStore marks commands that open the configured backends
func needsStore(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations["store"] = "true"
	return cmd
}

func openStore() error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	var err error
	if store, err = wire.OpenStore(cfg); err != nil {
		return err
	}
	if destinations, err = wire.OpenDestinations(cfg, store); err != nil {
		return err
	}
	if publisher, err = wire.OpenPublisher(cfg); err != nil {
		return err
	}
	logs = eventlog.NewService(store, publisher, logger)
	registry = webhook.NewRegistry(destinations)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log to stderr")

	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(webhookCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	closeAll(context.Background())
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
