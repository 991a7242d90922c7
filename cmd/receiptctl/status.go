package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status JOB_ID",
	Short: "Show the state of a print job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := newClient().job(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("job:      %s\n", job.JobID)
		fmt.Printf("printer:  %s\n", job.Printer)
		fmt.Printf("status:   %s\n", job.Status)
		fmt.Printf("phase:    %s\n", job.Phase)
		if job.Title != "" {
			fmt.Printf("title:    %s\n", job.Title)
		}
		fmt.Printf("progress: %d nodes, %d lines, %d images\n",
			job.Progress.Nodes, job.Progress.Lines, job.Progress.Images)
		if job.Error != "" {
			fmt.Printf("error:    %s\n", job.Error)
		}
		return nil
	},
}
