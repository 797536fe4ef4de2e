package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/export"
	"github.com/jonathan/career-assistant/internal/profile"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored career profiles",
	}
	cmd.AddCommand(
		newProfileListCmd(opts),
		newProfileShowCmd(opts),
		newProfileDeleteCmd(opts),
		newProfileExportCmd(opts),
		newProfileImportCmd(opts),
	)
	return cmd
}

// withStore runs fn against the configured profile store.
func withStore(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app, store profile.Store) error) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()
	store, err := a.profiles(cmd.Context())
	if err != nil {
		return err
	}
	return fn(cmd.Context(), a, store)
}

func loadNamedProfile(ctx context.Context, a *app, name string) (*profile.Profile, error) {
	store, err := a.profiles(ctx)
	if err != nil {
		return nil, err
	}
	p, err := store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", profile.ErrNotFound, name)
	}
	return p, nil
}

func newProfileListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, opts, func(ctx context.Context, _ *app, store profile.Store) error {
				list, err := store.List(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, list)
				}
				if len(list) == 0 {
					fmt.Fprintln(out, "No profiles found.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tFIELD\tLEVEL\tUPDATED")
				for _, s := range list {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.CareerField, s.ExperienceLevel, s.UpdatedAt.Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newProfileShowCmd(opts *rootOptions) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a profile as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(ctx context.Context, a *app, _ profile.Store) error {
				p, err := loadNamedProfile(ctx, a, args[0])
				if err != nil {
					return err
				}
				if stats {
					return writeJSON(cmd.OutOrStdout(), profile.StatsFor(p, time.Now().UTC()))
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "Print activity and progress statistics instead")
	return cmd
}

func newProfileDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(ctx context.Context, _ *app, store profile.Store) error {
				deleted, err := store.Delete(ctx, args[0])
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("%w: %s", profile.ErrNotFound, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newProfileExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		outDir string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "export [NAME]",
		Short: "Export one profile, or every profile with --all",
		Long: fmt.Sprintf(`Write a profile as %s. With --all every profile is written to a
timestamped JSON file, or to a zip bundle with --format zip.`, strings.Join(export.Formats, ", ")),
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(ctx context.Context, a *app, store profile.Store) error {
				var (
					name string
					data []byte
					err  error
				)
				if all {
					name, data, err = exportAll(ctx, store, format, time.Now().UTC())
				} else {
					name, data, err = exportOne(ctx, a, args[0], format)
				}
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, name)
				if err := os.WriteFile(path, data, 0644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "Export format")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	cmd.Flags().BoolVar(&all, "all", false, "Export every profile")
	return cmd
}

func exportOne(ctx context.Context, a *app, name, format string) (string, []byte, error) {
	_, ext, ok := export.ContentType(format)
	if !ok {
		return "", nil, &export.UnsupportedFormatError{Format: format}
	}
	p, err := loadNamedProfile(ctx, a, name)
	if err != nil {
		return "", nil, err
	}
	data, err := export.Render(p, format)
	if err != nil {
		return "", nil, err
	}
	return profile.Slug(p.Name) + "_profile" + ext, data, nil
}

func exportAll(ctx context.Context, store profile.Store, format string, now time.Time) (string, []byte, error) {
	profiles, err := profile.LoadAll(ctx, store)
	if err != nil {
		return "", nil, err
	}
	stamp := now.Format("20060102_150405")
	switch format {
	case export.FormatJSON:
		data, err := export.BulkJSON(profiles, now)
		return "all_profiles_" + stamp + ".json", data, err
	case "zip":
		data, err := export.Bundle(profiles)
		return "career_profiles_" + stamp + ".zip", data, err
	}
	return "", nil, &export.UnsupportedFormatError{Format: format}
}

func newProfileImportCmd(opts *rootOptions) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import profiles from a JSON or CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			var profiles []*profile.Profile
			if strings.EqualFold(filepath.Ext(args[0]), ".csv") {
				profiles, err = export.ImportCSV(data)
			} else {
				profiles, err = export.ImportJSON(data)
			}
			if err != nil {
				return err
			}

			return withStore(cmd, opts, func(ctx context.Context, a *app, store profile.Store) error {
				saved, skipped, err := profile.SaveAll(ctx, store, profiles, overwrite)
				if err != nil {
					return err
				}
				a.log.WithField("file", args[0]).Info("profiles imported")
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d profile(s)\n", len(saved))
				if len(skipped) > 0 {
					fmt.Fprintf(out, "Skipped existing: %s (use --overwrite to replace)\n", strings.Join(skipped, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace profiles that already exist")
	return cmd
}
