package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/babytracker/babytracker/internal/backfill"
	"github.com/babytracker/babytracker/internal/config"
	"github.com/babytracker/babytracker/internal/localtime"
	"github.com/babytracker/babytracker/internal/logging"
	"github.com/babytracker/babytracker/internal/models"
	"github.com/babytracker/babytracker/internal/store"
)

var dryRun bool

var rootCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Import hand-written diaper and feeding logs into the tracker database",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cmd.UsageString())
		os.Exit(2)
	},
}

var diapersCmd = &cobra.Command{
	Use:   "diapers <file>",
	Short: "Import a diaper log (\"poop 3:15am\" lines under \"2/15\" headers)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, args[0], importDiapers)
	},
}

var feedingsCmd = &cobra.Command{
	Use:   "feedings <file>",
	Short: "Import a feeding log (\"3:30am to 5:30am\" lines under \"2/15\" headers)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, args[0], importFeedings)
	},
}

// Execute runs the root command and is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db-url", "", "Postgres URL (env DB_URL)")
	pf.String("timezone", "", "IANA timezone the log was written in (env TIMEZONE)")
	pf.Int("year", 0, "Year the log belongs to (env REFERENCE_YEAR)")
	pf.String("log-level", "", "Log level (env LOG_LEVEL)")
	pf.BoolVar(&dryRun, "dry-run", false, "Parse only and print the result as YAML")

	rootCmd.AddCommand(diapersCmd, feedingsCmd)
}

// loadConfig layers explicitly set flags over env and defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.New()
	bind := map[string]string{
		"DB_URL":         "db-url",
		"TIMEZONE":       "timezone",
		"REFERENCE_YEAR": "year",
		"LOG_LEVEL":      "log-level",
	}
	for key, flag := range bind {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	if dryRun {
		v.Set("STORE", config.StoreMemory)
	}

	c, err := config.FromViper(v)
	if err != nil {
		return c, err
	}
	return c, logging.Setup(c.LogLevel, c.LogFormat, nil)
}

// openStore returns the import target. A dry run never writes, so it gets a
// throwaway memory store; a real import must go to the database, since a
// memory store would vanish when the command exits.
func openStore(ctx context.Context, cfg config.Config, dry bool) (store.Store, error) {
	if dry {
		return store.NewMemoryStore(), nil
	}
	if cfg.Store != config.StorePostgres {
		return nil, errors.Errorf("STORE=%s cannot hold an import; use --dry-run or STORE=%s", cfg.Store, config.StorePostgres)
	}

	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ensure schema")
	}
	return db, nil
}

type importFunc func(ctx context.Context, p *backfill.Parser, im *backfill.Importer, r io.Reader, w io.Writer) error

func run(cmd *cobra.Command, path string, fn importFunc) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	norm, err := localtime.NewNormalizer(cfg.ReferenceYear, cfg.Timezone)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open backfill file")
	}
	defer f.Close()

	st, err := openStore(cmd.Context(), cfg, dryRun)
	if err != nil {
		return err
	}
	defer st.Close()

	log.WithFields(log.Fields{"file": path, "year": cfg.ReferenceYear, "timezone": cfg.Timezone, "dry_run": dryRun}).
		Info("Parsing backfill data")
	return fn(cmd.Context(), backfill.NewParser(norm), backfill.NewImporter(st), f, cmd.OutOrStdout())
}

func importDiapers(ctx context.Context, p *backfill.Parser, im *backfill.Importer, r io.Reader, w io.Writer) error {
	results, err := p.ParseDiapers(r)
	if err != nil {
		return err
	}
	if dryRun {
		return writePreview(w, results)
	}

	rep := im.ImportDiapers(ctx, results)
	logReport(models.KindDiaper, rep)
	return nil
}

func importFeedings(ctx context.Context, p *backfill.Parser, im *backfill.Importer, r io.Reader, w io.Writer) error {
	results, err := p.ParseFeedings(r)
	if err != nil {
		return err
	}
	if dryRun {
		return writePreview(w, results)
	}

	rep := im.ImportFeedings(ctx, results)
	logReport(models.KindFeeding, rep)
	return nil
}

func logReport(kind string, rep backfill.Report) {
	log.WithFields(log.Fields{
		"kind":     kind,
		"inserted": rep.Inserted,
		"failed":   rep.Failed,
		"skipped":  rep.Skipped,
		"errors":   rep.Errors,
	}).Info("Backfill complete")
}

type previewIssue struct {
	Line  int                `yaml:"line"`
	Kind  backfill.IssueKind `yaml:"kind"`
	Text  string             `yaml:"text"`
	Error string             `yaml:"error"`
}

type preview[T any] struct {
	Events []T            `yaml:"events"`
	Issues []previewIssue `yaml:"issues,omitempty"`
}

func writePreview[T any](w io.Writer, results []backfill.Result[T]) error {
	out := preview[T]{Events: []T{}}
	for _, r := range results {
		if r.OK() {
			out.Events = append(out.Events, r.Event)
			continue
		}
		out.Issues = append(out.Issues, previewIssue{
			Line:  r.Issue.Line,
			Kind:  r.Issue.Kind,
			Text:  r.Issue.Text,
			Error: r.Issue.Err.Error(),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, "write preview")
	}
	return enc.Close()
}
