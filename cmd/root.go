package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/evcon/evcon/internal/auth"
	"github.com/evcon/evcon/internal/central"
	"github.com/evcon/evcon/internal/config"
	"github.com/evcon/evcon/internal/config/data"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/export"
	"github.com/evcon/evcon/internal/resource"
	"github.com/evcon/evcon/internal/view"
)

const (
	appName    = "evcon"
	appVersion = "0.1.0"
)

var (
	evconFlags *data.Flags
	rootCmd    = &cobra.Command{
		Use:   appName,
		Short: "A terminal console for EV charging administration",
		Long:  `evcon is a terminal-based UI for browsing and administering the assets, cars, charging plans and transactions of an EV charging platform.`,
		RunE:  run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
	tenantsCmd = &cobra.Command{
		Use:   "tenants",
		Short: "List the configured tenants",
		RunE:  listTenants,
	}
)

func init() {
	evconFlags = config.NewFlags()
	initEvconFlags()
	rootCmd.AddCommand(versionCmd, tenantsCmd)
}

func initEvconFlags() {
	rootCmd.Flags().Float32VarP(evconFlags.RefreshRate, "refresh", "r", config.DefaultRefreshRate, "Auto refresh interval in seconds")
	rootCmd.Flags().StringVarP(evconFlags.LogLevel, "logLevel", "l", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(evconFlags.LogFile, "logFile", "", "Log file path")
	rootCmd.Flags().StringVarP(evconFlags.Command, "command", "c", "", "Startup grid")
	rootCmd.Flags().BoolVar(evconFlags.ReadOnly, "readonly", false, "Enable read-only mode")
	rootCmd.Flags().BoolVar(evconFlags.Write, "write", false, "Enable write mode (overrides readonly)")
	rootCmd.Flags().StringVarP(evconFlags.Tenant, "tenant", "t", "", "Tenant to connect to")
	rootCmd.Flags().StringVar(evconFlags.ExportTo, "export-to", "", "Export destination, a directory or s3://bucket/prefix")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func listTenants(cmd *cobra.Command, args []string) error {
	if err := config.InitLocs(); err != nil {
		return fmt.Errorf("failed to initialize locations: %w", err)
	}
	tenants, err := config.LoadTenants(config.AppTenantsFile)
	if err != nil {
		return fmt.Errorf("failed to load tenants: %w", err)
	}
	def, _ := tenants.DefaultName()
	for _, n := range tenants.Names() {
		mark := " "
		if n == def {
			mark = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, n)
	}

	return nil
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Initialize locations
	if err := config.InitLocs(); err != nil {
		return fmt.Errorf("failed to initialize locations: %w", err)
	}

	// 2. Load the tenant connection profiles
	tenants, err := config.LoadTenants(config.AppTenantsFile)
	if err != nil {
		return fmt.Errorf("failed to load tenants: %w", err)
	}

	// 3. Create and load configuration, then settle the tenant and overrides
	cfg := config.NewConfig(tenants)
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(evconFlags, tenants); err != nil {
		return fmt.Errorf("failed to refine configuration: %w", err)
	}
	_ = cfg.Save(false)

	// 4. Logger
	logger, err := newLogger(cfg.Evcon.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// 5. REST client of the tenant
	tenant, err := cfg.ActiveTenant()
	if err != nil {
		return err
	}
	clientCfg := tenant.ClientConfig()
	if clientCfg.Timeout <= 0 {
		if clientCfg.Timeout, err = cfg.Evcon.GetAPITimeout(); err != nil {
			return err
		}
	}
	apiClient, err := central.NewAPIClient(clientCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if !apiClient.CheckConnectivity(ctx) {
		logger.Warn("Tenant is not reachable", zap.String("tenant", tenant.Name))
	}

	// 6. Current user and its authorizations
	factory := dao.NewFactory(apiClient)
	session, err := dao.NewUsers(factory).Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to load user session: %w", err)
	}
	authorizer, err := auth.NewAuthorizer(session)
	if err != nil {
		return fmt.Errorf("failed to build authorizations: %w", err)
	}

	// 7. Optional notification socket and export destination
	gates := data.NewFeatureGates()
	if tc := cfg.Evcon.ActiveContext(); tc != nil {
		gates = tc.Gates()
	}
	deps := resource.Deps{
		Factory: factory,
		Auth:    authorizer,
		Log:     logger,
	}
	var notifier *central.Notifier
	if gates.Notifications && tenant.SocketURL != "" {
		notifier = central.NewNotifier(tenant.SocketURL, tenant.Token, logger)
		deps.Notifier = notifier
	}
	if gates.Export {
		sink, err := newSink(ctx, cfg, clientCfg.Timeout)
		switch {
		case err == nil:
			deps.Exporter = export.NewExporter(sink, logger)
		case export.IsNoDestination(err):
		default:
			logger.Warn("Export disabled", zap.Error(err))
		}
	}

	// 8. Create and initialize the TUI application
	app := view.NewApp(cfg, deps, appVersion)
	if err := app.Init(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// 9. Run the application along with the notification socket
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return app.Run(gctx)
	})
	if notifier != nil {
		g.Go(func() error {
			return notifier.Run(gctx)
		})
	}

	return g.Wait()
}

// newSink picks the export files location, defaulting to the state
// directory.
func newSink(ctx context.Context, cfg *config.Config, timeout time.Duration) (export.Sink, error) {
	e := cfg.Evcon.Export
	dest := e.Destination
	if dest == "" {
		dest = config.AppExportsDir
	}

	return export.NewSink(ctx, dest, export.S3Options{
		Profile: e.Profile,
		Region:  e.Region,
		Timeout: timeout,
	})
}

// newLogger returns a JSON logger writing to the log file. The terminal
// belongs to the UI.
func newLogger(l data.Logger) (*zap.Logger, error) {
	path := l.File
	if path == "" {
		path = config.AppLogFile
	}
	if err := config.InitLogLoc(path); err != nil {
		return nil, err
	}
	level, err := zap.ParseAtomicLevel(strings.ToLower(l.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q, using %s\n", l.Level, config.DefaultLogLevel)
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}

	return zc.Build(zap.Fields(zap.String("app", appName)))
}
