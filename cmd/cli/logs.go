package main

import (
	"fmt"

	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/spf13/cobra"
)

var (
	limit  int
	offset int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect or clear the audit logs",
}

var logsMessagesCmd = needsStore(&cobra.Command{
	Use:   "messages",
	Short: "List message logs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := logs.ListMessageLogs(cmd.Context(), eventlog.Page{Limit: limit, Offset: offset})
		if err != nil {
			return err
		}
		rows := messageRows(all)
		if done, err := printStructured(stdout, output, rows); done || err != nil {
			return err
		}
		printMessageTable(stdout, rows)
		return nil
	},
})

var logsWebhooksCmd = needsStore(&cobra.Command{
	Use:   "webhooks",
	Short: "List webhook delivery attempts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := logs.ListWebhookAttempts(cmd.Context(), eventlog.Page{Limit: limit, Offset: offset})
		if err != nil {
			return err
		}
		rows := attemptRows(all)
		if done, err := printStructured(stdout, output, rows); done || err != nil {
			return err
		}
		printAttemptTable(stdout, rows)
		return nil
	},
})

var logsClearCmd = needsStore(&cobra.Command{
	Use:       "clear {messages|webhooks}",
	Short:     "Delete every entry of one log",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"messages", "webhooks"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "messages":
			if err := logs.ClearMessageLogs(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Message logs cleared")
		case "webhooks":
			if err := logs.ClearWebhookAttempts(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Webhook logs cleared")
		default:
			return fmt.Errorf("unknown log %q, expected messages or webhooks", args[0])
		}
		return nil
	},
})

type statsRow struct {
	MessagesSent     int64   `json:"messagesSent" yaml:"messagesSent"`
	MessagesReceived int64   `json:"messagesReceived" yaml:"messagesReceived"`
	MediaFiles       int64   `json:"mediaFiles" yaml:"mediaFiles"`
	WebhookEvents    int64   `json:"webhookEvents" yaml:"webhookEvents"`
	LastActivity     *string `json:"lastActivity" yaml:"lastActivity"`
}

var statsCmd = needsStore(&cobra.Command{
	Use:   "stats",
	Short: "Show dashboard counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := logs.Stats(cmd.Context())
		if err != nil {
			return err
		}
		row := statsRow{
			MessagesSent:     c.MessagesSent,
			MessagesReceived: c.MessagesReceived,
			MediaFiles:       c.MediaFiles,
			WebhookEvents:    c.WebhookEvents,
		}
		if c.LastActivity != nil {
			s := c.LastActivity.UTC().Format("2006-01-02T15:04:05Z07:00")
			row.LastActivity = &s
		}
		if done, err := printStructured(stdout, output, row); done || err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Messages sent:     %d\n", row.MessagesSent)
		fmt.Fprintf(stdout, "Messages received: %d\n", row.MessagesReceived)
		fmt.Fprintf(stdout, "Media files:       %d\n", row.MediaFiles)
		fmt.Fprintf(stdout, "Webhook events:    %d\n", row.WebhookEvents)
		if row.LastActivity != nil {
			fmt.Fprintf(stdout, "Last activity:     %s\n", *row.LastActivity)
		}
		return nil
	},
})

func init() {
	for _, c := range []*cobra.Command{logsMessagesCmd, logsWebhooksCmd} {
		c.Flags().IntVar(&limit, "limit", eventlog.DefaultLimit, "maximum number of entries")
		c.Flags().IntVar(&offset, "offset", 0, "number of entries to skip")
	}
	logsCmd.AddCommand(logsMessagesCmd, logsWebhooksCmd, logsClearCmd)
}
