package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var printersCmd = &cobra.Command{
	Use:   "printers",
	Short: "List configured printers and their queue depths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printers, err := newClient().printers(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMODE\tWIDTH\tQUEUE")
		for _, p := range printers {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", p.Name, p.Mode, p.Width, p.QueueDepth)
		}
		return w.Flush()
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions documents may use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actions, err := newClient().actions(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ACTION\tKIND\tALIAS OF")
		for _, a := range actions {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, a.Kind, a.AliasOf)
		}
		return w.Flush()
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent print history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := newClient().history(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FINISHED\tJOB\tPRINTER\tSTATUS\tLINES\tTITLE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				e.FinishedAt.Format("2006-01-02 15:04:05"), e.JobID, e.Printer, e.Status, e.Lines, e.Title)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")
}
