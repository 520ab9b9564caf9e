package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/application/workspace"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/layout"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

var (
	// Logging related
	debug     bool
	logLevel  string
	logFormat string
	logFile   string

	// Atlas sources
	dataDir    string
	atlasFiles []string

	// Interpolation and indexing
	resampleCount int
	worldMargin   float64
	concurrency   int

	timezone string

	rootCmd = &cobra.Command{
		Use:   "chrono-atlas [flags]",
		Short: "Explore layered historical atlases over time",
		Long: `chrono-atlas loads atlas files (JSON collections of keyframed shapes) and
evaluates them at any year: every entity morphs smoothly between its keyframes.

Without a subcommand it lists the atlases found in the data directory.

Examples:
  chrono-atlas --dir ./atlases                          # List loaded atlases
  chrono-atlas snapshot --year -44                      # Entities as of 44 BC
  chrono-atlas snapshot --year 800 --layer political -o json
  chrono-atlas query --year 117 --rect 0,0,500,500      # Entities inside a box
  chrono-atlas hit --year 117 --at 120,80               # Topmost entity under a point
  chrono-atlas export --year 1500 --geojson -f out.json # GeoJSON snapshot
  chrono-atlas validate rome.json                       # Check atlas files
  chrono-atlas play --start -500 --end 500              # Scrub through time`,
		PersistentPreRunE: setupEnvironment,
		RunE:              runList,
		SilenceUsage:      true,
	}
)

const (
	envFile        = ".env"
	defaultLogFile = "~/.go-chrono-atlas/logs/app.log"
	defaultDataDir = "."

	envDataDir  = "ATLAS_DIR"
	envLogLevel = "ATLAS_LOG_LEVEL"
)

func init() {
	// Atlas sources
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir,
		"Directory scanned for atlas files (env "+envDataDir+")")
	rootCmd.PersistentFlags().StringSliceVar(&atlasFiles, "file", nil,
		"Atlas file to load instead of scanning --dir (repeatable)")

	// Interpolation and indexing
	rootCmd.PersistentFlags().IntVar(&resampleCount, "resample", 0,
		"Vertex count shapes are resampled to when morphing (0 = default)")
	rootCmd.PersistentFlags().Float64Var(&worldMargin, "margin", 0,
		"Padding around the world bounds (0 = default)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", runtime.NumCPU(),
		"Number of atlas files parsed in parallel")

	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for export timestamps (e.g., Europe/Rome, UTC)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode (debug level, log to stderr as well)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error) (env "+envLogLevel+")")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path (empty to disable)")
}

// setupEnvironment applies environment overrides, then initializes logging
// and the clock. It runs before every command.
func setupEnvironment(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if v := os.Getenv(envDataDir); v != "" && !flags.Changed("dir") {
		dataDir = v
	}
	if v := os.Getenv(envLogLevel); v != "" && !flags.Changed("log-level") {
		logLevel = v
	}

	level := logLevel
	if debug {
		level = "debug"
	}

	var file string
	if logFile != "" {
		file = expandPath(logFile)
		if err := ensureDir(filepath.Dir(file)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := util.InitLogger(util.LoggerConfig{
		Level:   level,
		Format:  logFormat,
		File:    file,
		Console: debug,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if err := util.InitializeClock(timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return nil
}

// newConfig builds the workspace config from the shared flags.
func newConfig() *workspace.Config {
	cfg := &workspace.Config{
		ResampleCount: resampleCount,
		WorldMargin:   worldMargin,
		Concurrency:   concurrency,
		Timezone:      timezone,
	}
	if len(atlasFiles) > 0 {
		for _, f := range atlasFiles {
			cfg.Files = append(cfg.Files, expandPath(f))
		}
	} else {
		cfg.DataDir = expandPath(dataDir)
	}
	return cfg
}

// loadWorkspace loads every configured atlas. Files that fail are reported
// on errOut and skipped; it fails only when nothing could be loaded.
func loadWorkspace(cfg *workspace.Config, errOut io.Writer) (*workspace.Manager, error) {
	m, err := workspace.NewManager(cfg)
	if err != nil {
		return nil, err
	}

	infos, errs := m.LoadConfigured()
	for _, err := range errs {
		util.LogWarn(err.Error())
		fmt.Fprintln(errOut, util.FormatErrorText("skipped: "+err.Error()))
	}
	if len(infos) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("no atlas could be loaded: %w", errors.Join(errs...))
	}
	return m, nil
}

func runList(cmd *cobra.Command, args []string) error {
	m, err := loadWorkspace(newConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	infos := m.ListAtlases()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No atlas files found.")
		return nil
	}

	sizer := layout.NewSizer(0, 0)
	headers := []string{"Atlas", "Layer", "Year", "Entities", "Skipped", "Size", "Source"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		year := "-"
		if info.Year != nil {
			year = util.FormatYear(float64(*info.Year))
		}
		rows = append(rows, []string{
			info.ID,
			info.Layer,
			year,
			fmt.Sprintf("%d", info.EntityCount),
			fmt.Sprintf("%d", info.Skipped),
			util.FormatBytes(info.Size),
			filepath.Base(info.Source),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = sizer.DisplayWidth(h)
	}
	for _, r := range rows {
		for i, v := range r {
			widths[i] = max(widths[i], sizer.DisplayWidth(v))
		}
	}

	printLine := func(values []string) {
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = sizer.PadString(v, widths[i], i < 3 || i > 5)
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	fmt.Fprintln(out, util.FormatHeaderTitle(fmt.Sprintf("%d atlases, %d entities", len(infos), m.Len())))
	printLine(headers)
	for _, r := range rows {
		printLine(r)
	}
	fmt.Fprintf(out, "Layers: %s\n", strings.Join(m.LayerNames(), ", "))
	if first, last, ok := m.YearSpan(); ok {
		fmt.Fprintf(out, "Keyframes: %s\n", util.FormatYearRange(float64(first), float64(last)))
	}
	if conns := m.Connections(); len(conns) > 0 {
		line := fmt.Sprintf("Connections: %d", len(conns))
		if bad := len(m.ConnectionProblems()); bad > 0 {
			line += " " + util.FormatWarningTitle(fmt.Sprintf("(%d invalid, see validate)", bad))
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func Execute() error {
	_ = godotenv.Load(envFile)
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
