// Command docchat is a terminal front end for a remote document-chat
// service: paste text, upload documents, or submit URLs to build the
// service's knowledge corpus, then converse with an assistant that
// cites the ingested items grounding its answers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat/docchat/internal/adapters/backend"
	"github.com/docchat/docchat/internal/adapters/filewatcher"
	"github.com/docchat/docchat/internal/domain/conversation"
	"github.com/docchat/docchat/internal/domain/ports"
	"github.com/docchat/docchat/internal/domain/usecases"
	"github.com/docchat/docchat/internal/infrastructure/logging"
	"github.com/docchat/docchat/internal/infrastructure/tui"
)

type appConfig struct {
	serverURL   string
	watchDir    string
	withHistory bool
	logFile     string
	logMode     string
}

func main() {
	var cfg appConfig
	flag.StringVar(&cfg.serverURL, "server", envOr("DOCCHAT_SERVER", "http://localhost:8000"), "Base URL of the document-chat service")
	flag.StringVar(&cfg.watchDir, "watch", envOr("DOCCHAT_WATCH_DIR", ""), "Optional drop folder; documents placed there are ingested automatically")
	flag.BoolVar(&cfg.withHistory, "with-history", envOrBool("DOCCHAT_SEND_HISTORY", false), "Send the prior transcript with each chat request")
	flag.StringVar(&cfg.logFile, "log-file", envOr("DOCCHAT_LOG_FILE", ""), "Write structured logs to this file (disabled when empty)")
	flag.StringVar(&cfg.logMode, "log-mode", envOr("DOCCHAT_LOG_MODE", "dev"), "Log encoding mode (dev|prod)")
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg appConfig) error {
	log, err := logging.New(cfg.logMode, cfg.logFile)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	convo := conversation.New()
	client := backend.NewClient(cfg.serverURL, log.With("component", "backend"))

	notices := make(chan tui.Notice, 16)
	notify := func(text string, err error) {
		select {
		case notices <- tui.Notice{Text: text, Err: err}:
		default:
		}
	}

	chatCo := usecases.NewChatCoordinator(client, convo, cfg.withHistory, log.With("component", "chat"))
	ingestCo := usecases.NewIngestionCoordinator(client, convo, notify, log.With("component", "ingest"))

	model := tui.NewModel(tui.Deps{
		Convo:   convo,
		Chat:    chatCo,
		Ingest:  ingestCo,
		Notices: notices,
		Log:     log.With("component", "tui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Repaint as soon as a turn lands so the user's own message shows
	// up before the remote call settles.
	convo.SetRenderHook(func() {
		p.Send(tui.TranscriptChanged{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.watchDir != "" {
		if err := startWatcher(ctx, cfg.watchDir, p, log); err != nil {
			return fmt.Errorf("starting drop-folder watcher: %w", err)
		}
	}

	log.Info("docchat starting", "server", cfg.serverURL, "watch_dir", cfg.watchDir, "with_history", cfg.withHistory)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}

// startWatcher feeds drop-folder events into the interface, which
// dispatches them through the ingestion coordinator one at a time.
func startWatcher(ctx context.Context, dir string, p *tea.Program, log *logging.Logger) error {
	watcher, err := filewatcher.NewFSNotifyWatcher(nil)
	if err != nil {
		return err
	}

	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		watcher.Stop()
		return err
	}

	go func() {
		defer watcher.Stop()
		for event := range events {
			if event.Operation == ports.FileDeleted {
				continue
			}
			log.Debug("drop-folder file detected", "path", event.Path)
			p.Send(tui.FileDetected{Path: event.Path})
		}
	}()

	return nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return fallback
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
