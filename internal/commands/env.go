package commands

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/categorize"
	"github.com/tallybook/tally/internal/config"
	"github.com/tallybook/tally/internal/ledger"
	"github.com/tallybook/tally/internal/logger"
	"github.com/tallybook/tally/internal/plan"
	"github.com/tallybook/tally/internal/store"
)

// env is everything a command needs to reach the ledger.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *store.Store
	svc   *ledger.Service
}

// openEnv loads configuration, opens the database and builds the service.
// Relative paths in the config file resolve against its directory.
func openEnv(cmd *cobra.Command, configPath string) (*env, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(configPath)
	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN != ":memory:" && !filepath.IsAbs(cfg.Database.DSN) {
		cfg.Database.DSN = filepath.Join(base, cfg.Database.DSN)
	}

	log := logger.NewTo(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	var book *categorize.RuleBook
	if cfg.Rules.Path != "" {
		path := cfg.Rules.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		if book, err = categorize.LoadRuleBook(path); err != nil {
			return nil, err
		}
	}

	var gate plan.Gate
	if len(cfg.Plans.Entitlements) > 0 {
		ent, err := plan.FromConfig(cfg.Plans.Entitlements)
		if err != nil {
			return nil, fmt.Errorf("loading plan entitlements: %w", err)
		}
		gate = ent
	}

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		_ = st.Close()
		return nil, err
	}

	return &env{
		cfg:   cfg,
		log:   log,
		store: st,
		svc:   ledger.NewService(st, book, gate, log),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// actorFlags are the identity flags shared by per-user commands.
type actorFlags struct {
	user string
	plan string
}

func (f *actorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.user, "user", "", "user id (required)")
	cmd.Flags().StringVar(&f.plan, "plan", string(plan.Free), "plan tier of the user")
	_ = cmd.MarkFlagRequired("user")
}

func (f *actorFlags) actor() (ledger.Actor, error) {
	id, err := uuid.Parse(f.user)
	if err != nil {
		return ledger.Actor{}, fmt.Errorf("invalid --user %q: %w", f.user, err)
	}
	return ledger.Actor{UserID: id, Tier: plan.ParseTier(f.plan)}, nil
}
