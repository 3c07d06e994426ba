package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION...",
	Short: "Ask one question and print the exchange",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		s.doc.SetQuestion(strings.Join(args, " "))

		out := s.chat.Submit(cmd.Context(), s.doc)
		fmt.Fprint(cmd.OutOrStdout(), s.doc.Transcript.Text())
		return outcomeErr(out)
	},
}
