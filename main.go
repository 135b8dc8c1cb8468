package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tamatots/internal/config"
	"tamatots/internal/journal"
	"tamatots/internal/pet"
	"tamatots/internal/ui"
)

const defaultHistoryLimit = 20

var (
	flagOverrides config.Overrides

	statusFormat string
	historyLimit int
	nameImage    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tamatots",
		Short:        "A tiny virtual pet that lives in your terminal",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runPlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagOverrides.ConfigPath, "config", "", "config file path")
	flags.StringVar(&flagOverrides.StatePath, "state", "", "session record path")
	flags.StringVar(&flagOverrides.JournalPath, "journal", "", "care journal database path")
	flags.StringVar(&flagOverrides.LogPath, "log", "", "log file path")
	flags.BoolVarP(&flagOverrides.Verbose, "verbose", "v", false, "log to stderr instead of the log file")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newNameCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// session bundles what every command needs to touch the pet.
type session struct {
	settings config.Settings
	store    pet.FileStore
	journal  *journal.Journal
	closeLog func()
}

func openSession(withJournal bool) (*session, error) {
	settings, err := config.Resolve(flagOverrides)
	if err != nil {
		return nil, err
	}
	closeLog, err := setupLogging(settings)
	if err != nil {
		return nil, err
	}
	s := &session{
		settings: settings,
		store:    pet.FileStore{Path: settings.StatePath},
		closeLog: closeLog,
	}
	if withJournal {
		j, err := journal.Open(settings.JournalPath)
		if err != nil {
			// The pet is playable without its history.
			log.Printf("Care journal unavailable: %v", err)
		} else {
			s.journal = j
		}
	}
	return s, nil
}

func (s *session) recorder() pet.Recorder {
	if s.journal == nil {
		return nil
	}
	return s.journal
}

func (s *session) Close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			log.Printf("Error closing journal: %v", err)
		}
	}
	s.closeLog()
}

func setupLogging(settings config.Settings) (func(), error) {
	if settings.Verbose {
		log.SetOutput(os.Stderr)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(settings.LogPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(settings.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

func runPlayCmd(_ *cobra.Command, _ []string) error {
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	state, restored := s.store.Load(s.settings.Defaults)
	if restored {
		log.Printf("Restored %s from %s", state.Name, s.settings.StatePath)
	}

	engine := pet.NewEngine(state, s.store, s.recorder())
	report, err := engine.Start(pet.TimeNow())
	if err != nil {
		return err
	}
	if report.ElapsedHours > 0 {
		log.Printf("Caught up %.2fh: %d messes appeared, %s -%.2f",
			report.ElapsedHours, report.Spawned, state.Mess.Config.Target, report.Penalty)
	}

	program := tea.NewProgram(ui.NewModel(engine), tea.WithAltScreen())
	_, runErr := program.Run()
	if err := engine.Shutdown(pet.TimeNow()); err != nil {
		log.Printf("Error saving state on exit: %v", err)
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how the pet is doing right now",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
	cmd.Flags().StringVarP(&statusFormat, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

// statusReport is the machine readable form of `tamatots status`.
type statusReport struct {
	Name      string             `json:"name" yaml:"name"`
	Image     string             `json:"image,omitempty" yaml:"image,omitempty"`
	Status    string             `json:"status" yaml:"status"`
	Mood      int                `json:"mood" yaml:"mood"`
	Stats     map[string]float64 `json:"stats" yaml:"stats"`
	Messes    int                `json:"messes" yaml:"messes"`
	MaxMesses int                `json:"max_messes" yaml:"max_messes"`
	Volume    int                `json:"volume" yaml:"volume"`
	LastSeen  time.Time          `json:"last_seen" yaml:"last_seen"`
	AwayHours float64            `json:"away_hours" yaml:"away_hours"`
	Restored  bool               `json:"restored" yaml:"restored"`
}

func newStatusReport(s *pet.State, report pet.ReconcileReport, restored bool, lastSeen time.Time) statusReport {
	stats := make(map[string]float64, len(s.Stats))
	for stat, v := range s.Stats {
		stats[string(stat)] = v
	}
	return statusReport{
		Name:      s.Name,
		Image:     s.Image,
		Status:    pet.GetStatusWithLabel(s),
		Mood:      s.Stats.Mood(),
		Stats:     stats,
		Messes:    s.Mess.Count(),
		MaxMesses: s.Mess.Config.MaxOnField,
		Volume:    s.Volume,
		LastSeen:  lastSeen,
		AwayHours: report.ElapsedHours,
		Restored:  restored,
	}
}

// runStatusCmd previews the caught-up state without saving it, so peeking
// never advances the pet's clock.
func runStatusCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	state, restored := s.store.Load(s.settings.Defaults)
	lastSeen := state.LastSeen
	report := pet.Reconcile(state, pet.TimeNow())
	return writeStatus(cmd.OutOrStdout(), statusFormat, state, newStatusReport(state, report, restored, lastSeen))
}

func writeStatus(w io.Writer, format string, s *pet.State, report statusReport) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		_, err := fmt.Fprint(w, ui.StatsCard(s))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent entries from the care journal",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", defaultHistoryLimit, "number of entries to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	j, err := journal.Open(s.settings.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if cerr := j.Close(); cerr != nil {
			log.Printf("Error closing journal: %v", cerr)
		}
	}()

	ctx := context.Background()
	entries, err := j.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	counts, err := j.CountByKind(ctx)
	if err != nil {
		return err
	}
	return writeHistory(cmd.OutOrStdout(), entries, counts)
}

func writeHistory(w io.Writer, entries []pet.LogEntry, counts []journal.KindCount) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No care history yet.")
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-9s %s", e.Time.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Detail)
		if e.Kind == pet.LogStatus && e.OldStatus != "" {
			line += fmt.Sprintf(" (%s → %s)", e.OldStatus, e.NewStatus)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	var totals []string
	for _, kc := range counts {
		totals = append(totals, fmt.Sprintf("%s %d", kc.Kind, kc.Count))
	}
	_, err := fmt.Fprintf(w, "\nTotals: %s\n", strings.Join(totals, ", "))
	return err
}

func newNameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name <name>",
		Short: "Rename the pet",
		Args:  cobra.ExactArgs(1),
		RunE:  runNameCmd,
	}
	cmd.Flags().StringVar(&nameImage, "image", "", "sprite image path")
	return cmd
}

func runNameCmd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}

	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	state, _ := s.store.Load(s.settings.Defaults)
	engine := pet.NewEngine(state, s.store, s.recorder())
	if _, err := engine.Start(pet.TimeNow()); err != nil {
		return err
	}
	image := state.Image
	if cmd.Flags().Changed("image") {
		image = nameImage
	}
	engine.SetIdentity(name, image)
	if err := engine.Shutdown(pet.TimeNow()); err != nil {
		return fmt.Errorf("failed to save pet: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Your pet is now called %s.\n", engine.Snapshot().Name)
	return err
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create the config file and print its path",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	settings, err := config.Resolve(flagOverrides)
	if err != nil {
		return err
	}
	created, err := writeConfigTemplate(settings.ConfigPath)
	if err != nil {
		return err
	}
	if created {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", settings.ConfigPath)
	} else {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", settings.ConfigPath)
	}
	return err
}

func writeConfigTemplate(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
