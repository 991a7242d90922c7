package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blauwers/receiptd/internal/parser"
	"github.com/spf13/cobra"
)

var (
	printPrinter string
	printWait    bool
)

var printCmd = &cobra.Command{
	Use:   "print FILE",
	Short: "Submit a document for printing",
	Long: `Submit a document to the server's print queue. The content type is
taken from the file extension (json, yaml, md, html, csv).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentType, err := parser.ContentTypeForFile(args[0])
		if err != nil {
			return err
		}
		body, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		c := newClient()
		accepted, err := c.submit(cmd.Context(), printPrinter, contentType, body)
		if err != nil {
			return err
		}
		fmt.Printf("job %s queued on %s\n", accepted.JobID, accepted.Printer)

		if !printWait {
			return nil
		}
		return waitForJob(cmd.Context(), c, accepted.JobID)
	},
}

func init() {
	printCmd.Flags().StringVarP(&printPrinter, "printer", "p", "", "Printer name (required)")
	printCmd.MarkFlagRequired("printer")
	printCmd.Flags().BoolVar(&printWait, "wait", false, "Poll until the job reaches a final status")
}

func waitForJob(ctx context.Context, c *client, id string) error {
	for {
		job, err := c.job(ctx, id)
		if err != nil {
			return err
		}
		switch job.Status {
		case "completed":
			fmt.Printf("completed: %d lines, %d images\n", job.Progress.Lines, job.Progress.Images)
			return nil
		case "failed":
			return fmt.Errorf("job failed (%s): %s", job.Phase, job.Error)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(300 * time.Millisecond):
		}
	}
}
