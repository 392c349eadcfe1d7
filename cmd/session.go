package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jfmyers9/gnlookup/internal/config"
	"github.com/jfmyers9/gnlookup/internal/lookup"
	"github.com/jfmyers9/gnlookup/internal/store"
	"github.com/jfmyers9/gnlookup/pkg/gracenote"
	"github.com/rs/zerolog"
)

// session bundles what every lookup command needs
type session struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *store.Store
	svc    *lookup.Service
}

// openSession loads configuration, opens the lookup database and creates
// the lookup service. Callers must Close the session.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return openSessionWithConfig(ctx, cfg)
}

func openSessionWithConfig(ctx context.Context, cfg *config.Config) (*session, error) {
	logger := setupLogger(logFile, logLevel)

	requestLogging := cfg.Gracenote.Debug || debug
	if requestLogging {
		// Request lines are logged at debug level
		logger = logger.Level(zerolog.DebugLevel)
	}

	if cfg.Gracenote.ClientID == "" || cfg.Gracenote.ClientTag == "" {
		return nil, fmt.Errorf("gracenote credentials not configured, set gracenote.client_id and gracenote.client_tag in %s",
			filepath.Join(config.GetConfigDir(), "config.yaml"))
	}

	dbPath := historyDBPath(cfg)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup database: %w", err)
	}

	logger.Debug().Str("db", dbPath).Msg("Opened lookup database")

	svc, err := lookup.New(ctx, lookup.Options{
		Gracenote: gracenote.Config{
			ClientID:  cfg.Gracenote.ClientID,
			ClientTag: cfg.Gracenote.ClientTag,
			UserID:    cfg.Gracenote.UserID,
			Debug:     requestLogging,
			Timeout:   cfg.Gracenote.Timeout(),
			BaseURL:   cfg.Gracenote.BaseURL,
			Logger:    newGracenoteLogger(logger),
		},
		Store:  st,
		Logger: logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  st,
		svc:    svc,
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// historyDBPath returns the lookup database path, creating the data directory
func historyDBPath(cfg *config.Config) string {
	_ = os.MkdirAll(cfg.DataDir, 0755)
	return filepath.Join(cfg.DataDir, "lookups.db")
}
