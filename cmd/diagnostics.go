// file: cmd/diagnostics.go
// version: 2.0.1
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jdfalk/flexster/internal/config"
	"github.com/jdfalk/flexster/internal/models"
	"github.com/spf13/cobra"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and cleanup helpers",
		Long:  "Diagnostic utilities for inspecting the track database and remote sources.",
	}

	diagQueryCmd = &cobra.Command{
		Use:   "query",
		Short: "Inspect stored track records",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runDiagnosticsQuery(limit)
		},
	}

	diagCleanupCmd = &cobra.Command{
		Use:   "cleanup-unresolved",
		Short: "Remove records that resolved to placeholders only",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runCleanupUnresolved(force, dryRun)
		},
	}

	diagSourcesCmd = &cobra.Command{
		Use:   "sources",
		Short: "Check connectivity to the remote metadata sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSourceCheck()
		},
	}
)

func init() {
	diagQueryCmd.Flags().Int("limit", 5, "Number of records to display")

	diagCleanupCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	diagCleanupCmd.Flags().Bool("dry-run", false, "List placeholder records without deleting")

	diagnosticsCmd.AddCommand(diagQueryCmd)
	diagnosticsCmd.AddCommand(diagCleanupCmd)
	diagnosticsCmd.AddCommand(diagSourcesCmd)

	rootCmd.AddCommand(diagnosticsCmd)
}

func runDiagnosticsQuery(limit int) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	tracks, err := store.ListTracks()
	if err != nil {
		return fmt.Errorf("failed to fetch tracks: %w", err)
	}
	if len(tracks) == 0 {
		fmt.Println("No tracks found.")
		return nil
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	for i, track := range tracks {
		fmt.Printf("%2d. Query: %s\n", i+1, track.Query)
		fmt.Printf("    Title:    %s\n", track.Title)
		fmt.Printf("    Artist:   %s\n", track.Artist)
		fmt.Printf("    Composer: %s\n", track.Composer)
		fmt.Printf("    Years:    composed %s, recorded %s\n", track.CompositionYear, track.RecordingYear)
		if track.CatalogURL != "" {
			fmt.Printf("    Catalog:  %s\n", track.CatalogURL)
		}
		fmt.Println("---")
	}
	return nil
}

func runCleanupUnresolved(force, dryRun bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	tracks, err := store.ListTracks()
	if err != nil {
		return fmt.Errorf("failed to fetch tracks: %w", err)
	}

	unresolved := make([]models.TrackRecord, 0)
	for _, track := range tracks {
		if track.Title == models.UnknownTitle && track.Artist == models.UnknownArtist {
			unresolved = append(unresolved, track)
		}
	}

	if len(unresolved) == 0 {
		fmt.Println("No placeholder-only records detected.")
		return nil
	}

	fmt.Printf("Found %d placeholder-only records:\n", len(unresolved))
	for i, track := range unresolved {
		fmt.Printf("%2d. %s\n", i+1, track.Query)
	}

	if dryRun {
		fmt.Println("Dry run enabled; no deletions were performed.")
		return nil
	}

	if !force {
		confirmed, err := promptYesNo(fmt.Sprintf("Delete %d records", len(unresolved)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted. No records deleted.")
			return nil
		}
	}

	deleted := 0
	for _, track := range unresolved {
		if err := store.DeleteTrack(track.Query); err != nil {
			fmt.Printf("Failed to delete %q: %v\n", track.Query, err)
			continue
		}
		deleted++
	}

	fmt.Printf("Deleted %d records. Re-run fetch to repopulate them.\n", deleted)
	return nil
}

// sourceProbes are cheap GET requests that confirm each remote source is
// reachable without spending a search against it.
var sourceProbes = []struct {
	name string
	url  string
}{
	{"iTunes", "https://itunes.apple.com/search?term=test&media=music&limit=1"},
	{"MusicBrainz", "https://musicbrainz.org/ws/2/recording?query=test&fmt=json&limit=1"},
	{"Wikipedia", "https://en.wikipedia.org/w/api.php?action=query&format=json&list=search&srsearch=test&srlimit=1"},
	{"Wikidata", "https://www.wikidata.org/w/api.php?action=wbgetclaims&format=json&entity=Q1"},
}

func runSourceCheck() error {
	client := &http.Client{Timeout: 10 * time.Second}
	failures := 0

	for _, probe := range sourceProbes {
		req, err := http.NewRequest(http.MethodGet, probe.url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", fmt.Sprintf("Flexster/0.1.0 ( %s )", config.AppConfig.Contact))

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("FAIL %-12s %v\n", probe.name, err)
			failures++
			continue
		}
		resp.Body.Close()
		fmt.Printf("OK   %-12s %d in %s\n", probe.name, resp.StatusCode, time.Since(start).Round(time.Millisecond))
		if resp.StatusCode >= 400 {
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d source(s) unreachable", failures)
	}
	return nil
}

func promptYesNo(action string) (bool, error) {
	fmt.Printf("%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}
