package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/katakuxiko/pdfchat/internal/console"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with tabs, uploads and a running transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		return s.repl(cmd, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func (s *session) repl(cmd *cobra.Command, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	fmt.Fprint(out, console.Screen(s.doc, s.contents))

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case line == "/quit":
			return nil
		case line == "/tab":
			fmt.Fprintln(cmd.ErrOrStderr(), "usage: /tab ID")
			continue
		case strings.HasPrefix(line, "/tab "):
			// Errors are logged by the controller; the screen stays as it was.
			_ = s.tabs.Click(s.doc, strings.TrimSpace(strings.TrimPrefix(line, "/tab ")))
		case line == "/upload" || strings.HasPrefix(line, "/upload "):
			if err := s.selectFile(strings.TrimSpace(strings.TrimPrefix(line, "/upload"))); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				continue
			}
			s.upload.Submit(ctx, s.doc)
		default:
			s.doc.SetQuestion(line)
			s.chat.Submit(ctx, s.doc)
		}
		fmt.Fprint(out, console.Screen(s.doc, s.contents))
	}
	return sc.Err()
}
