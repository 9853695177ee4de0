package main

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkedingest/linkedingest/internal/storage"
	"github.com/linkedingest/linkedingest/internal/transform"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <profile-id>",
	Short: "Ingest one profile and print the text bundle",
	Long: `Ingest one profile through a running linkedingest server and print the
normalized text bundle to stdout.

The request may wait in the ingestion queue; check "linkedingest queue" for
an estimate first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		profileID := args[0]
		printStep("ingesting %s", profileID)

		var doc transform.ProfileDocument
		if err := client.get(cmd.Context(), "/api/profile/"+url.PathEscape(profileID), &doc); err != nil {
			return err
		}

		fmt.Println(doc.Text())
		printSuccess("ingested %s", doc.FullName)
		return nil
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show ingestion queue depth and completion estimate",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var status struct {
			WaitingRequestsCount         int   `json:"waiting_requests_count"`
			EstimatedCompletionTimestamp int64 `json:"estimated_completion_timestamp"`
		}
		if err := client.get(cmd.Context(), "/api/queue", &status); err != nil {
			return err
		}

		printStatus("waiting", "%d", status.WaitingRequestsCount)
		eta := time.Unix(status.EstimatedCompletionTimestamp, 0)
		printStatus("estimated completion", "%s (in %s)", eta.Format(time.RFC3339), time.Until(eta).Round(time.Second))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent ingest outcomes from the audit journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var history struct {
			Ingests []storage.IngestRecord `json:"ingests"`
		}
		path := fmt.Sprintf("/api/history?limit=%d", limit)
		if err := client.get(cmd.Context(), path, &history); err != nil {
			return err
		}

		if len(history.Ingests) == 0 {
			printStep("no ingests recorded yet")
			return nil
		}
		for _, rec := range history.Ingests {
			line := fmt.Sprintf("%s  %-12s %s (%dms)",
				rec.CreatedAt.Format(time.RFC3339), rec.Outcome, rec.ProfileID, rec.DurationMS)
			if rec.Outcome == storage.OutcomeOK {
				printSuccess("%s", line)
			} else {
				printWarning("%s: %s", line, rec.Detail)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of rows to show")
}
