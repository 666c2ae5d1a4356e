// file: cmd/root.go
// version: 2.1.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jdfalk/flexster/internal/cards"
	"github.com/jdfalk/flexster/internal/config"
	"github.com/jdfalk/flexster/internal/database"
	"github.com/jdfalk/flexster/internal/export"
	"github.com/jdfalk/flexster/internal/metadata"
	"github.com/jdfalk/flexster/internal/models"
	"github.com/jdfalk/flexster/internal/server"
	"github.com/jdfalk/flexster/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var inputFile string
var outputPrefix string
var databasePath string
var platform string
var gridRows int
var gridCols int
var noMirror bool

// defaultQueries is the built-in demo set used when no input file is given.
var defaultQueries = []string{
	"Handel Giulio Cesare",
	"A Love Supreme (Acknowledgment)",
	"Bohemian Rhapsody",
	"Kind of Blue So What",
	"Beethoven Symphony 9",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flexster",
	Short: "Generate printable music flashcards from track queries",
	Long: `Flexster resolves free-text track queries against the iTunes catalog,
MusicBrainz, and Wikidata, then lays the results out as a printable PDF of
QR-code flashcards: scan the front to play the track, flip the card for the
answer (title, artist, composer, years).`,
}

// fetchCmd resolves queries and persists the results.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Resolve track queries and store the metadata",
	Long: `Resolve each query through the metadata pipeline and save the results
to the track database and a CSV file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, err := loadQueries()
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		refresh, _ := cmd.Flags().GetBool("refresh")
		records, err := runFetch(cmd.Context(), store, queries, refresh)
		if err != nil {
			return err
		}

		csvPath := config.AppConfig.OutputPrefix + ".csv"
		if err := export.WriteCSV(csvPath, records); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}

		fmt.Printf("Resolved %d/%d queries\n", len(records), len(queries))
		return nil
	},
}

// cardsCmd resolves queries and builds the flashcard PDF.
var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Resolve queries and build the flashcard PDF",
	Long: `Run the full pipeline: resolve queries, store and export the metadata,
and lay the results out as a two-sided flashcard PDF.

With --watch, keep running and rebuild whenever the input file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		refresh, _ := cmd.Flags().GetBool("refresh")
		if err := buildCards(cmd.Context(), store, refresh); err != nil {
			return err
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return nil
		}
		if config.AppConfig.InputFile == "" {
			return fmt.Errorf("--watch requires --input")
		}

		w := watcher.New(func(path string) {
			if err := buildCards(context.Background(), store, refresh); err != nil {
				fmt.Printf("Rebuild failed: %v\n", err)
			}
		}, 0)
		if err := w.Start(config.AppConfig.InputFile); err != nil {
			return fmt.Errorf("failed to watch %s: %w", config.AppConfig.InputFile, err)
		}
		defer w.Stop()

		fmt.Printf("Watching %s for changes, Ctrl-C to stop\n", config.AppConfig.InputFile)
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		return nil
	},
}

// qrCmd writes a single QR code PNG, mostly useful for spot checks.
var qrCmd = &cobra.Command{
	Use:   "qr <url> [output.png]",
	Short: "Write a QR code PNG for a URL",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := "qr.png"
		if len(args) > 1 {
			out = args[1]
		}
		size, _ := cmd.Flags().GetInt("size")
		if err := cards.WriteQRFile(args[0], out, size); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

// serveCmd starts the local HTTPS playback demo server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the playback demo page over HTTPS",
	Long: `Start a local HTTPS server exposing the resolved tracks as JSON and an
optional static demo page. A self-signed certificate is generated on first
run; browsers require TLS before they hand tokens to the Spotify Web
Playback SDK, even on localhost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var store *database.Store
		if config.AppConfig.DatabasePath != "" {
			var err error
			store, err = database.Open(config.AppConfig.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()
		}

		staticDir, _ := cmd.Flags().GetString("static")
		srv := server.NewServer(store, staticDir)

		cfg := server.DefaultConfig()
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.Host = host
		}
		return srv.Start(cfg)
	},
}

func loadQueries() ([]string, error) {
	if config.AppConfig.InputFile == "" {
		fmt.Println("No input file given, using the built-in demo queries")
		return defaultQueries, nil
	}
	queries, err := export.ReadQueries(config.AppConfig.InputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries in %s", config.AppConfig.InputFile)
	}
	return queries, nil
}

func openStore() (*database.Store, error) {
	path := config.AppConfig.DatabasePath
	if path == "" {
		path = config.AppConfig.OutputPrefix + ".db"
	}
	store, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	fmt.Printf("Using database: %s\n", path)
	return store, nil
}

func runFetch(ctx context.Context, store *database.Store, queries []string, refresh bool) ([]models.TrackRecord, error) {
	// Paced remote lookups are the expensive part; queries the store already
	// answers are skipped unless a refresh is forced.
	records := make([]models.TrackRecord, 0, len(queries))
	pending := make([]string, 0, len(queries))
	for _, query := range queries {
		if refresh {
			pending = append(pending, query)
			continue
		}
		cached, err := store.GetTrack(query)
		if err == nil {
			records = append(records, *cached)
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		pending = append(pending, query)
	}
	if len(records) > 0 {
		fmt.Printf("Reusing %d already-resolved queries (use --refresh to redo them)\n", len(records))
	}
	if len(pending) == 0 {
		return records, nil
	}

	resolver := metadata.NewDefaultResolver(config.AppConfig)
	resolved, err := resolver.FetchAll(ctx, pending)
	if err != nil {
		return nil, err
	}

	runID, err := store.BeginRun(len(pending))
	if err != nil {
		return nil, err
	}
	for i := range resolved {
		if err := store.SaveTrack(runID, &resolved[i]); err != nil {
			return nil, err
		}
	}
	return append(records, resolved...), nil
}

func buildCards(ctx context.Context, store *database.Store, refresh bool) error {
	queries, err := loadQueries()
	if err != nil {
		return err
	}

	records, err := runFetch(ctx, store, queries, refresh)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no queries could be resolved")
	}

	csvPath := config.AppConfig.OutputPrefix + ".csv"
	if err := export.WriteCSV(csvPath, records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	pdfPath := config.AppConfig.OutputPrefix + ".pdf"
	gen := cards.NewGenerator(config.AppConfig.Rows, config.AppConfig.Cols,
		config.AppConfig.Mirror, config.AppConfig.Platform)
	if err := gen.Build(records, pdfPath); err != nil {
		return err
	}

	fmt.Printf("Wrote %s and %s (%d cards)\n", csvPath, pdfPath, len(records))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.flexster.yaml)")
	rootCmd.PersistentFlags().StringVar(&inputFile, "input", "", "file with one track query per line")
	rootCmd.PersistentFlags().StringVar(&outputPrefix, "output", "music_cards", "prefix for generated files (.csv, .pdf, .db)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "path to the track database (default: <output>.db)")
	rootCmd.PersistentFlags().StringVar(&platform, "platform", "apple", "QR link platform: apple or spotify")
	rootCmd.PersistentFlags().IntVar(&gridRows, "rows", 4, "card rows per page")
	rootCmd.PersistentFlags().IntVar(&gridCols, "cols", 3, "card columns per page")
	rootCmd.PersistentFlags().BoolVar(&noMirror, "no-mirror", false, "do not mirror back-page columns for double-sided printing")

	viper.BindPFlag("input_file", rootCmd.PersistentFlags().Lookup("input"))
	viper.BindPFlag("output_prefix", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("platform", rootCmd.PersistentFlags().Lookup("platform"))
	viper.BindPFlag("rows", rootCmd.PersistentFlags().Lookup("rows"))
	viper.BindPFlag("cols", rootCmd.PersistentFlags().Lookup("cols"))

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(serveCmd)

	fetchCmd.Flags().Bool("refresh", false, "re-resolve queries already in the database")

	cardsCmd.Flags().Bool("watch", false, "rebuild when the input file changes")
	cardsCmd.Flags().Bool("refresh", false, "re-resolve queries already in the database")

	qrCmd.Flags().Int("size", 512, "QR image size in pixels")

	serveCmd.Flags().String("port", "8000", "port to bind")
	serveCmd.Flags().String("host", "127.0.0.1", "host to bind")
	serveCmd.Flags().String("static", "web", "static demo directory to serve")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".flexster")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	// The no-mirror flag inverts the stored setting.
	if rootCmd.PersistentFlags().Changed("no-mirror") {
		viper.Set("mirror", !noMirror)
	}

	// Ensure the output and database directories exist.
	for _, path := range []string{outputPrefix, databasePath} {
		if path == "" {
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				fmt.Printf("Error creating directory %s: %v\n", dir, err)
			}
		}
	}

	config.InitConfig()
}
