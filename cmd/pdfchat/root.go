package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/katakuxiko/pdfchat/internal/client"
	"github.com/katakuxiko/pdfchat/internal/config"
	"github.com/katakuxiko/pdfchat/internal/console"
	"github.com/katakuxiko/pdfchat/internal/model"
	"github.com/katakuxiko/pdfchat/internal/page"
	"github.com/katakuxiko/pdfchat/internal/util"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	serverURL string
	csrfToken string
	verbose   bool

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pdfchat",
	Short: "Upload PDFs and ask questions against a pdfchat server",
	Long: `pdfchat drives the chat page from a terminal: it uploads PDFs to the
server for indexing and keeps a running transcript of questions and answers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if serverURL != "" {
			cfg.Client.BaseURL = serverURL
		}
		if csrfToken != "" {
			cfg.Client.CSRFToken = csrfToken
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		log = util.NewLogger(os.Stderr, level, cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "pdfchat.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL (overrides client.base_url)")
	rootCmd.PersistentFlags().StringVar(&csrfToken, "csrf-token", "", "CSRF token to send instead of the one from the chat page")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(uploadCmd, askCmd, chatCmd)
}

// session is one terminal "page load": a document bound to a client and the
// three controllers.
type session struct {
	doc      *page.Document
	contents map[string]string
	upload   *page.UploadController
	chat     *page.ChatController
	tabs     *page.TabController
}

func newSession(ctx context.Context) (*session, error) {
	c := client.New(cfg.Client.BaseURL, client.WithTimeout(cfg.Client.Timeout), client.WithLogger(log))

	token := cfg.Client.CSRFToken
	if token == "" {
		t, err := c.LoadPageToken(ctx)
		if err != nil {
			// Same as a page without the hidden field: send an empty token.
			log.Warn("could not load chat page token", "server", c.BaseURL(), "error", err)
		}
		token = t
	}

	tabs, err := page.TabsFromConfig(cfg.Tabs)
	if err != nil {
		return nil, fmt.Errorf("building tabs: %w", err)
	}
	notifier := console.NewNotifier(os.Stderr)
	return &session{
		doc:      page.NewDocument(token, tabs),
		contents: page.ContentsFromConfig(cfg.Tabs),
		upload:   page.NewUploadController(c, notifier, log),
		chat:     page.NewChatController(c, notifier, log),
		tabs:     page.NewTabController(log),
	}, nil
}

// selectFile reads path into the upload form. A blank path clears it.
func (s *session) selectFile(path string) error {
	if path == "" {
		s.doc.SelectFile(nil)
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	s.doc.SelectFile(&model.SelectedFile{Name: util.SafeName(path), Data: data})
	return nil
}

func outcomeErr(out page.Outcome) error {
	switch out.Kind {
	case page.OutcomeFailed:
		return out.Err
	case page.OutcomeRejected:
		return fmt.Errorf("nothing to upload")
	default:
		return nil
	}
}
