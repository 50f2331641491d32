// Package main provides the CLI entrypoint for cryptomatch.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cryptomatch/internal/catalog"
	"github.com/verte-zerg/cryptomatch/internal/config"
	"github.com/verte-zerg/cryptomatch/internal/engine"
	"github.com/verte-zerg/cryptomatch/internal/generator"
	"github.com/verte-zerg/cryptomatch/internal/httpapi"
	"github.com/verte-zerg/cryptomatch/internal/logging"
	"github.com/verte-zerg/cryptomatch/internal/model"
	"github.com/verte-zerg/cryptomatch/internal/stats"
	"github.com/verte-zerg/cryptomatch/internal/statsui"
	"github.com/verte-zerg/cryptomatch/internal/store"
	"github.com/verte-zerg/cryptomatch/internal/tui"
)

const (
	defaultLayout      = string(generator.LayoutColumns)
	defaultCurveWindow = 10
	remoteTimeout      = 10 * time.Second
)

var (
	logLevel string

	playWallet   string
	playIdentity string
	playLayout   string
	playStatsURL string
	playCatalog  string
	playDBDriver string
	playDBDSN    string

	statsWallet      string
	statsSince       string
	statsLast        int
	statsCurveWindow int

	leaderboardLimit int

	envFiles []string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cryptomatch",
		Short:         "Web3 term matching game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&playStatsURL, "stats-url", "", "remote stats service URL (default: local database)")
	rootCmd.PersistentFlags().StringVar(&playDBDriver, "db-driver", "", "database driver: sqlite, postgres or mysql")
	rootCmd.PersistentFlags().StringVar(&playDBDSN, "db-dsn", "", "database DSN (default: XDG data path for sqlite)")

	rootCmd.Flags().StringVar(&playWallet, "wallet", "", "wallet address (skips the login screen)")
	rootCmd.Flags().StringVar(&playIdentity, "identity", "", "display name shown on the leaderboard")
	rootCmd.Flags().StringVar(&playLayout, "layout", defaultLayout, "board layout: columns or shuffled")
	rootCmd.Flags().StringVar(&playCatalog, "catalog", "", "path to a TOML catalog of sets, modes and tips")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSetsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolvePlayConfig(cmd, fileCfg)

	layout, ok := generator.ParseLayout(cfg.Layout)
	if !ok {
		return fmt.Errorf("--layout must be %q or %q", generator.LayoutColumns, generator.LayoutShuffled)
	}
	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	log, logFile, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeQuietly(logFile)

	st, err := openStore(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}()

	svc, err := statsService(cfg.StatsURL, st, log)
	if err != nil {
		return err
	}

	policy := engine.DefaultPolicy().WithConfig(cfg.Policy)
	policy.Layout = layout
	gen := generator.New()
	eng := engine.New(engine.Config{
		Catalog:   cat,
		Policy:    policy,
		Generator: gen,
	})

	m := tui.NewModel(tui.Options{
		Engine:   eng,
		Stats:    svc,
		History:  st,
		Wallet:   cfg.Wallet,
		Identity: cfg.Identity,
		Logger:   log,
		Rand:     gen.Rand(),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return m.Err()
}

// resolvePlayConfig merges flags over the config file; explicit flags win.
func resolvePlayConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	applyStringConfig(cmd, "wallet", &playWallet, fileCfg.Play.Wallet)
	applyStringConfig(cmd, "identity", &playIdentity, fileCfg.Play.Identity)
	applyStringConfig(cmd, "layout", &playLayout, fileCfg.Play.Layout)
	applyStringConfig(cmd, "stats-url", &playStatsURL, fileCfg.Play.StatsURL)
	applyStringConfig(cmd, "catalog", &playCatalog, fileCfg.Play.Catalog)
	applyStringConfig(cmd, "db-driver", &playDBDriver, fileCfg.Database.Driver)
	applyStringConfig(cmd, "db-dsn", &playDBDSN, fileCfg.Database.DSN)

	cfg := model.Config{
		Wallet:      strings.TrimSpace(playWallet),
		Identity:    strings.TrimSpace(playIdentity),
		Layout:      strings.TrimSpace(playLayout),
		StatsURL:    strings.TrimSpace(playStatsURL),
		CatalogPath: playCatalog,
		DBDriver:    playDBDriver,
		DBDSN:       playDBDSN,
	}
	applyIntValue(&cfg.Policy.ChainWindowMs, fileCfg.Policy.ChainWindowMs)
	applyFloatValue(&cfg.Policy.ComboStep, fileCfg.Policy.ComboStep)
	applyFloatValue(&cfg.Policy.ComboCap, fileCfg.Policy.ComboCap)
	applyIntValue(&cfg.Policy.IncorrectWindowMs, fileCfg.Policy.IncorrectWindowMs)
	applyIntValue(&cfg.Policy.ToastMs, fileCfg.Policy.ToastMs)
	return cfg
}

// openStore opens the configured database; sqlite without a DSN uses the
// XDG data path.
func openStore(driver, dsn string) (*store.Store, error) {
	if isSQLite(driver) {
		if dsn == "" {
			dsn = config.DefaultDBPath()
		}
		return store.Open(dsn)
	}
	return store.OpenDSN(driver, dsn)
}

func isSQLite(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return true
	}
	return false
}

// statsService picks the remote service when a URL is configured and the
// local database otherwise.
func statsService(statsURL string, st *store.Store, log zerolog.Logger) (stats.Service, error) {
	if statsURL == "" {
		return stats.NewLocal(st, log), nil
	}
	remote, err := stats.NewRemote(statsURL, &http.Client{Timeout: remoteTimeout})
	if err != nil {
		return nil, fmt.Errorf("invalid --stats-url: %w", err)
	}
	return remote, nil
}

func fileLogger() (zerolog.Logger, *os.File, error) {
	lvl, err := logging.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	log, f, err := logging.File(config.DefaultLogPath(), lvl)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return log, f, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newSetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "List card sets and the mode each one plays",
		Args:  cobra.NoArgs,
		RunE:  runSetsCmd,
	}
	cmd.Flags().StringVar(&playCatalog, "catalog", "", "path to a TOML catalog")
	return cmd
}

func runSetsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "catalog", &playCatalog, fileCfg.Play.Catalog)
	cat, err := catalog.LoadFile(playCatalog)
	if err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	return writeSets(cmd.OutOrStdout(), cat)
}

func writeSets(w io.Writer, cat catalog.Catalog) error {
	for i, set := range cat.Sets {
		mode := cat.ModeFor(i)
		terms := make([]string, 0, len(set))
		for _, pair := range set {
			terms = append(terms, pair.Term)
		}
		if _, err := fmt.Fprintf(w, "Set %d  %s (%ds, x%.1f XP)\n  %s\n",
			i+1, mode.Name, mode.TimeLimitSeconds, mode.XPMultiplier, strings.Join(terms, ", ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show leaderboard, history and airdrop progress",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsWallet, "wallet", "", "wallet filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "wallet", &statsWallet, fileCfg.Play.Wallet)
	applyStringConfig(cmd, "stats-url", &playStatsURL, fileCfg.Play.StatsURL)
	applyStringConfig(cmd, "db-driver", &playDBDriver, fileCfg.Database.Driver)
	applyStringConfig(cmd, "db-dsn", &playDBDSN, fileCfg.Database.DSN)

	filter, err := historyFilter(statsWallet, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	log, logFile, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeQuietly(logFile)

	st, err := openStore(playDBDriver, playDBDSN)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}()

	svc, err := statsService(strings.TrimSpace(playStatsURL), st, log)
	if err != nil {
		return err
	}

	m := statsui.NewModel(statsui.Options{
		Service: svc,
		History: st,
		Filter:  filter,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func historyFilter(wallet, since string, last, window int) (model.HistoryFilter, error) {
	filter := model.HistoryFilter{Last: last, CurveWindow: window}
	if wallet = strings.TrimSpace(wallet); wallet != "" {
		normalized, err := stats.NormalizeWallet(wallet)
		if err != nil {
			return filter, fmt.Errorf("invalid --wallet value: %w", err)
		}
		filter.Wallet = normalized
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if last < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return filter, fmt.Errorf("--curve-window must be >= 1")
	}
	return filter, nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top players",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().IntVar(&leaderboardLimit, "limit", stats.DefaultLeaderboardLimit, "number of players")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "stats-url", &playStatsURL, fileCfg.Play.StatsURL)
	applyStringConfig(cmd, "db-driver", &playDBDriver, fileCfg.Database.Driver)
	applyStringConfig(cmd, "db-dsn", &playDBDSN, fileCfg.Database.DSN)

	lvl, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log := logging.Console(os.Stderr, lvl)

	st, err := openStore(playDBDriver, playDBDSN)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}()

	svc, err := statsService(strings.TrimSpace(playStatsURL), st, log)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()
	entries, err := svc.GetLeaderboard(ctx, leaderboardLimit)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderLeaderboard(out, entries); err != nil {
		return err
	}
	qualified, err := svc.CountQualified(ctx, stats.QualifyScore)
	if err != nil {
		log.Warn().Err(err).Msg("airdrop progress unavailable")
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	return stats.RenderAirdrop(out, stats.AirdropProgress(qualified), 0)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP stats service",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load before the environment")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServeConfig(envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("db-driver") {
		cfg.DBDriver = playDBDriver
	}
	if cmd.Flags().Changed("db-dsn") {
		cfg.DBDSN = playDBDSN
	}
	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logging.New(os.Stdout, lvl)

	st, err := openStore(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}()
	log.Info().Str("dialect", st.Dialect()).Msg("database ready")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.New(stats.NewLocal(st, log), cfg.BaseURL, log)
	return srv.Run(ctx, cfg.Addr)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntValue(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func applyFloatValue(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

func defaultConfigTemplate() string {
	policy := engine.DefaultPolicy()
	return fmt.Sprintf(`# cryptomatch configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# wallet = "0x..."             # Wallet address; skips the login screen
# identity = "name.eth"        # Display name shown on the leaderboard
# layout = %q             # Board layout: columns or shuffled
# stats-url = "https://..."    # Remote stats service (default: local database)
# catalog = "/path/to/catalog.toml"

[policy]
# chain-window-ms = %d       # Max gap between matches that keeps a chain
# combo-step = %.1f            # XP bonus per chained match
# combo-cap = %.1f             # Max XP bonus from a chain
# incorrect-window-ms = %d    # How long a wrong pair stays visible
# toast-ms = %d              # Notification lifetime

[database]
# driver = "sqlite"            # sqlite, postgres or mysql
# dsn = ""                     # Default: %s
`,
		defaultLayout,
		policy.ChainWindow.Milliseconds(),
		policy.ComboStep,
		policy.ComboCap,
		policy.IncorrectWindow.Milliseconds(),
		policy.ToastDuration.Milliseconds(),
		config.DefaultDBPath(),
	)
}

func closeQuietly(f *os.File) {
	if f == nil {
		return
	}
	if err := f.Close(); err != nil {
		// Best-effort close of the log file.
		_ = err
	}
}
