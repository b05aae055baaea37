package main

import (
	"fmt"

	"github.com/marcelsud/whatsapp-relay/event"
	"github.com/marcelsud/whatsapp-relay/webhook"
	"github.com/marcelsud/whatsapp-relay/webhook/signature"
	"github.com/spf13/cobra"
)

var secretSize int

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage the webhook destination",
}

type destinationRow struct {
	URL    string `json:"webhookUrl" yaml:"webhookUrl"`
	Status string `json:"status" yaml:"status"`
	Source string `json:"source" yaml:"source"`
}

var webhookShowCmd = needsStore(&cobra.Command{
	Use:   "show",
	Short: "Show the destination events are delivered to",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, ok, err := registry.Active(cmd.Context())
		if err != nil {
			return err
		}
		row := destinationRow{URL: d.URL, Source: "registry"}
		if !ok {
			row = destinationRow{URL: cfg.DefaultWebhookURL, Source: "default"}
		}
		row.Status = "inactive"
		if row.URL != "" {
			row.Status = "active"
		}
		if done, err := printStructured(stdout, output, row); done || err != nil {
			return err
		}
		if row.URL == "" {
			fmt.Fprintln(stdout, "No webhook destination configured")
			return nil
		}
		fmt.Fprintf(stdout, "%s (%s, %s)\n", row.URL, row.Status, row.Source)
		return nil
	},
})

var webhookSetCmd = needsStore(&cobra.Command{
	Use:   "set <url>",
	Short: "Replace the webhook destination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := registry.Configure(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Webhook configured successfully")
		return nil
	},
})

type testRow struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Status   int    `json:"status" yaml:"status"`
	Success  bool   `json:"success" yaml:"success"`
}

var webhookTestCmd = needsStore(&cobra.Command{
	Use:   "test",
	Short: "Send a test event to the destination and record the attempt",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := webhook.NewDispatcher(registry, logs, cfg.DefaultWebhookURL, logger)
		if cfg.WebhookSigningSecret != "" {
			secret, err := signature.ParseSecret(cfg.WebhookSigningSecret)
			if err != nil {
				return fmt.Errorf("parsing signing secret: %w", err)
			}
			d.Secret = secret
		}

		attempt, sent := d.Attempt(event.NewWebhookTest())
		if !sent {
			return fmt.Errorf("no webhook destination configured")
		}
		row := testRow{Endpoint: attempt.Endpoint, Status: attempt.Status, Success: attempt.Succeeded()}
		if done, err := printStructured(stdout, output, row); done || err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Test webhook sent to %s: HTTP %d\n", row.Endpoint, row.Status)
		if !row.Success {
			return fmt.Errorf("destination answered %d", row.Status)
		}
		return nil
	},
})

var webhookSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a signing secret for WEBHOOK_SIGNING_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := signature.GenerateSecret(secretSize)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, secret.String())
		return nil
	},
}

func init() {
	webhookSecretCmd.Flags().IntVar(&secretSize, "bytes", 32, "secret size in bytes")
	webhookCmd.AddCommand(webhookShowCmd, webhookSetCmd, webhookTestCmd, webhookSecretCmd)
}
