package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/KirkDiggler/wargame-mechanics/internal/config"
	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
	"github.com/KirkDiggler/wargame-mechanics/internal/logging"
	"github.com/KirkDiggler/wargame-mechanics/internal/repositories/resolutions"
	"github.com/KirkDiggler/wargame-mechanics/internal/rulebook/coreabilities"
	"github.com/KirkDiggler/wargame-mechanics/internal/services"
)

// app is the state shared by subcommands once the root pre-run has loaded it
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *coreabilities.Registry
	redis    *redis.Client
}

func newRootCommand() *cobra.Command {
	a := &app{}
	v := config.New()

	root := &cobra.Command{
		Use:           "resolver",
		Short:         "Resolve wargame attack modifiers from rule mechanics",
		Long:          `Collects the rule mechanics that apply to an attack, aggregates them per combat step and prints the final roll targets with their sources.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.String("library", "", "Colon separated library directories (overrides LIBRARY_DIRS)")
	flags.String("log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")
	flags.String("core-abilities", "", "Core ability registry JSON file (overrides CORE_ABILITIES_FILE)")
	_ = v.BindPFlag(config.KeyLibraryDirs, flags.Lookup("library"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyCoreAbilitiesFile, flags.Lookup("core-abilities"))

	root.AddCommand(
		newResolveCommand(a),
		newAbilitiesCommand(a),
		newTranslateCommand(a),
	)
	return root
}

func (a *app) load(v *viper.Viper) error {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := config.FromViper(v)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger

	if path := cfg.Rules.CoreAbilitiesFile; path != "" {
		a.registry, err = coreabilities.Load(path)
		logger.Debug("loaded core abilities", zap.String("path", path))
	} else {
		a.registry, err = coreabilities.Default()
	}
	if err != nil {
		return errors.Wrap(err, "failed to load core abilities")
	}
	return nil
}

// provider wires the resolution services, using Redis when it is configured
// and reachable and memory otherwise
func (a *app) provider(ctx context.Context) *services.Provider {
	cfg := &services.ProviderConfig{
		Registry:    a.registry,
		LibraryDirs: a.cfg.Library.Dirs,
		CacheTTL:    a.cfg.Redis.CacheTTL,
		BatchLimit:  a.cfg.Rules.BatchLimit,
		Logger:      a.logger,
	}

	if repo := a.redisRepository(ctx); repo != nil {
		cfg.ResolutionRepository = repo
	}
	return services.NewProvider(cfg)
}

func (a *app) redisRepository(ctx context.Context) resolutions.Repository {
	if !a.cfg.Redis.Enabled() {
		a.logger.Debug("no REDIS_URL found, using in-memory resolution cache")
		return nil
	}

	opts, err := redis.ParseURL(a.cfg.Redis.URL)
	if err != nil {
		a.logger.Warn("failed to parse Redis URL, falling back to memory", errors.Field(err))
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		a.logger.Warn("failed to connect to Redis, falling back to memory",
			errors.Field(errors.WrapWithCode(err, errors.CodeUnavailable, "redis ping")))
		_ = client.Close()
		return nil
	}

	a.redis = client
	a.logger.Debug("using Redis resolution cache", zap.String("addr", opts.Addr))
	return resolutions.NewRedis(client, a.cfg.Redis.CacheTTL)
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("error closing Redis connection", errors.Field(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
