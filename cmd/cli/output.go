package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/marcelsud/whatsapp-relay/eventlog"
	"gopkg.in/yaml.v3"
)

// printStructured writes v as JSON or YAML, reporting false for table output
func printStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	case "table", "":
		return false, nil
	default:
		return false, fmt.Errorf("unknown output format %q", format)
	}
}

type messageRow struct {
	ID          string  `json:"id" yaml:"id"`
	Timestamp   string  `json:"timestamp" yaml:"timestamp"`
	Type        string  `json:"type" yaml:"type"`
	PhoneNumber string  `json:"phone_number" yaml:"phone_number"`
	Content     string  `json:"content" yaml:"content"`
	Status      string  `json:"status" yaml:"status"`
	MediaType   *string `json:"media_type" yaml:"media_type"`
	MediaPath   *string `json:"media_path" yaml:"media_path"`
}

type attemptRow struct {
	ID        string `json:"id" yaml:"id"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Method    string `json:"method" yaml:"method"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Status    int    `json:"status" yaml:"status"`
	Source    string `json:"source" yaml:"source"`
	Payload   any    `json:"payload" yaml:"payload"`
	Response  any    `json:"response" yaml:"response"`
}

func messageRows(all []eventlog.MessageLog) []messageRow {
	rows := make([]messageRow, 0, len(all))
	for _, m := range all {
		rows = append(rows, messageRow{
			ID:          m.ID,
			Timestamp:   m.Timestamp.UTC().Format(time.RFC3339),
			Type:        m.Direction.String(),
			PhoneNumber: m.PhoneNumber,
			Content:     m.Content,
			Status:      m.Status.String(),
			MediaType:   m.MediaType,
			MediaPath:   m.MediaPath,
		})
	}
	return rows
}

// attemptRows decodes stored JSON so YAML output shows structure, not strings
func attemptRows(all []eventlog.WebhookAttempt) []attemptRow {
	rows := make([]attemptRow, 0, len(all))
	for _, a := range all {
		rows = append(rows, attemptRow{
			ID:        a.ID,
			Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
			Method:    a.Method,
			Endpoint:  a.Endpoint,
			Status:    a.Status,
			Source:    a.Source,
			Payload:   decode(a.Payload),
			Response:  decode(a.Response),
		})
	}
	return rows
}

func decode(raw json.RawMessage) any {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	return v
}

func printMessageTable(w io.Writer, rows []messageRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tTYPE\tPHONE\tSTATUS\tMEDIA\tCONTENT")
	for _, r := range rows {
		mediaType := "-"
		if r.MediaType != nil {
			mediaType = *r.MediaType
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Timestamp, r.Type, r.PhoneNumber, r.Status, mediaType, truncate(r.Content, 50))
	}
	tw.Flush()
}

func printAttemptTable(w io.Writer, rows []attemptRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tSTATUS\tSOURCE\tENDPOINT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Timestamp, r.Status, r.Source, r.Endpoint)
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

var stdout io.Writer = os.Stdout
