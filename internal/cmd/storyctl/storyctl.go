// Package storyctl implements the maintenance commands that run against the
// story database without the web server.
package storyctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/talevortex/internal/platform/cmd"
	"github.com/louisbranch/talevortex/internal/platform/logging"
	"github.com/louisbranch/talevortex/internal/platform/textgen"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/export"
	"github.com/louisbranch/talevortex/internal/services/story/service"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
	"github.com/louisbranch/talevortex/internal/services/story/storage/sqlite"
)

// Export formats accepted by the export command.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatText = "text"
)

// Config holds settings shared by every storyctl command.
type Config struct {
	DBPath  string `env:"TALEVORTEX_DB_PATH" envDefault:"data/talevortex.db"`
	Logging logging.Config
	TextGen textgen.Config
}

// ParseConfig loads Config from the environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes args under telemetry, writing command output to stdout.
func Run(ctx context.Context, cfg Config, args []string, stdout, stderr io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceStoryCtl, func(ctx context.Context) error {
		root := NewRootCommand(cfg)
		root.SetArgs(args)
		root.SetOut(stdout)
		root.SetErr(stderr)
		return root.ExecuteContext(ctx)
	})
}

// NewRootCommand builds the storyctl command tree.
func NewRootCommand(cfg Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "storyctl",
		Short:         "Maintain the TaleVortex story database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")

	cli := &app{cfg: &cfg}
	root.AddCommand(cli.migrateCmd())
	root.AddCommand(cli.exportCmd())
	root.AddCommand(cli.unitsCmd())
	return root
}

type app struct {
	cfg *Config
}

// open returns the store and a service over it. The caller closes the store.
func (a *app) open(ctx context.Context) (*sqlite.Store, *service.Service, error) {
	path := strings.TrimSpace(a.cfg.DBPath)
	if path == "" {
		return nil, nil, errors.New("db path is required")
	}
	logger, err := logging.New(a.cfg.Logging, entrypoint.ServiceStoryCtl)
	if err != nil {
		logger = zap.NewNop()
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("open story store: %w", err)
	}
	generators, err := textgen.New(ctx, a.cfg.TextGen)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("init text generation: %w", err)
	}
	svc := service.New(store,
		service.WithFillGenerator(generators.Fill),
		service.WithTextGenerator(generators.Text),
		service.WithLogger(logger),
	)
	return store, svc, nil
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", a.cfg.DBPath)
			return err
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var (
		storyID string
		email   string
		format  string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a story as JSON, HTML, PDF or generated text",
		Example: `  storyctl export --story 3f2a... --format pdf --out harbor.pdf
  storyctl export --story 3f2a... --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case FormatJSON, FormatHTML, FormatPDF, FormatText:
			default:
				return fmt.Errorf("unknown format %q (want json, html, pdf or text)", format)
			}

			ctx := cmd.Context()
			store, svc, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if strings.TrimSpace(email) == "" {
				story, err := store.GetStory(ctx, storyID)
				if err != nil {
					return fmt.Errorf("load story %s: %w", storyID, err)
				}
				email = story.OwnerEmail
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				file, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			return exportStory(ctx, svc, out, email, storyID, format)
		},
	}
	cmd.Flags().StringVar(&storyID, "story", "", "Story ID to export")
	cmd.Flags().StringVar(&email, "email", "", "Owner email (defaults to the story owner)")
	cmd.Flags().StringVar(&format, "format", FormatJSON, "Output format: json, html, pdf or text")
	cmd.Flags().StringVar(&outPath, "out", "", "Write to this file instead of stdout")
	_ = cmd.MarkFlagRequired("story")
	return cmd
}

func exportStory(ctx context.Context, svc *service.Service, w io.Writer, email, storyID, format string) error {
	switch format {
	case FormatJSON:
		_, data, err := svc.ExportJSON(ctx, email, storyID)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatPDF:
		_, err := svc.ExportPDF(ctx, email, storyID, w)
		return err
	case FormatText:
		_, text, err := svc.ExportText(ctx, email, storyID)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	default:
		agg, err := svc.Aggregate(ctx, email, storyID)
		if err != nil {
			return err
		}
		return export.HTML(agg).Render(ctx, w)
	}
}

func (a *app) unitsCmd() *cobra.Command {
	var (
		include []string
		exclude []string
		search  string
	)
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List units across all stories, filtered like the unit browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, svc, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			labels, err := svc.Labels(ctx)
			if err != nil {
				return err
			}
			filter := storage.UnitFilter{Query: strings.TrimSpace(search)}
			if filter.IncludeLabelIDs, err = labelIDs(labels, include); err != nil {
				return err
			}
			if filter.ExcludeLabelIDs, err = labelIDs(labels, exclude); err != nil {
				return err
			}
			units, err := svc.BrowseUnits(ctx, filter)
			if err != nil {
				return err
			}
			return writeUnits(cmd.OutOrStdout(), units)
		},
	}
	cmd.Flags().StringSliceVar(&include, "label", nil, "Keep units carrying any of these labels")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Drop units carrying any of these labels")
	cmd.Flags().StringVar(&search, "search", "", "Match unit name, type or field values")
	return cmd
}

// labelIDs resolves label names case-insensitively.
func labelIDs(labels []domain.Label, names []string) ([]string, error) {
	byKey := make(map[string]string, len(labels))
	for _, label := range labels {
		byKey[domain.NameKey(label.Name)] = label.ID
	}
	var ids []string
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		id, ok := byKey[domain.NameKey(name)]
		if !ok {
			return nil, fmt.Errorf("unknown label %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeUnits(w io.Writer, units []domain.Unit) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNAME\tLABELS")
	for _, unit := range units {
		names := make([]string, 0, len(unit.Labels))
		for _, label := range unit.Labels {
			names = append(names, label.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", unit.ID, unit.Type, unit.Name, strings.Join(names, ", "))
	}
	return tw.Flush()
}
