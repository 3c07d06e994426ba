package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [FILE]",
	Short: "Upload a PDF for indexing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if err := s.selectFile(path); err != nil {
			return err
		}

		out := s.upload.Submit(cmd.Context(), s.doc)
		if out.Upload != nil {
			fmt.Fprintln(cmd.OutOrStdout(), string(out.Upload.Body))
		}
		return outcomeErr(out)
	},
}
