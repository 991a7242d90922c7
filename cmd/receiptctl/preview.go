package main

import (
	"fmt"
	"os"

	"github.com/blauwers/receiptd/internal/parser"
	"github.com/spf13/cobra"
)

var previewWidth int

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Render a document as text without printing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentType, err := parser.ContentTypeForFile(args[0])
		if err != nil {
			return err
		}
		body, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		rendered, err := newClient().preview(cmd.Context(), contentType, body, previewWidth)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVar(&previewWidth, "width", 0, "Receipt width in columns (server default when 0)")
}
