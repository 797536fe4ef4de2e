package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/observability"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/requirements"
	"github.com/jonathan/career-assistant/internal/resume"
	"github.com/jonathan/career-assistant/internal/validation"
)

type readinessOptions struct {
	role        string
	file        string
	url         string
	reportPath  string
	profileName string
	asJSON      bool
}

func newReadinessCmd(opts *rootOptions) *cobra.Command {
	var o readinessOptions
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Score a resume's keyword readiness for a role",
		Long:  "Extract text from a PDF, DOCX, TXT or HTML resume (local file or URL), match it against the role's skill keywords and print the readiness score, critical gaps and a learning path.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			return runReadiness(cmd.Context(), a, cmd.OutOrStdout(), o)
		},
	}
	cmd.Flags().StringVarP(&o.role, "role", "r", "", "Target job title (required)")
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Path to the resume")
	cmd.Flags().StringVar(&o.url, "url", "", "URL of the resume or portfolio page")
	cmd.Flags().StringVarP(&o.reportPath, "report", "o", "", "Write the Markdown report to this path")
	cmd.Flags().StringVar(&o.profileName, "profile", "", "Record the analysis on this profile")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Print JSON instead of text")
	_ = cmd.MarkFlagRequired("role")
	cmd.MarkFlagsOneRequired("file", "url")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	return cmd
}

func runReadiness(ctx context.Context, a *app, out io.Writer, o readinessOptions) error {
	catalog := requirements.Default()
	if _, ok := catalog.Lookup(o.role); !ok {
		return validation.New("role", fmt.Sprintf("unknown role %q", o.role))
	}

	var (
		doc *ingestion.Document
		err error
	)
	if o.url != "" {
		doc, err = a.loader(ctx).FromURL(ctx, o.url)
	} else {
		doc, err = ingestion.NewLoader(nil).FromFile(o.file)
	}
	if err != nil {
		return err
	}

	analysis, err := resume.Analyze(doc.Text, o.role, catalog)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	if o.reportPath != "" {
		if err := os.WriteFile(o.reportPath, []byte(resume.Report(analysis, now)), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	var earned []profile.Achievement
	if o.profileName != "" {
		store, err := a.profiles(ctx)
		if err != nil {
			return err
		}
		_, err = profile.Update(ctx, store, o.profileName, func(p *profile.Profile) error {
			profile.LogActivity(p, "resume", 0, now)
			earned = profile.CheckAchievements(p, profile.Counters{ResumeAnalyzed: true}, profile.Streaks(p.ActivityHistory, now))
			return nil
		})
		if err != nil {
			return err
		}
	}

	if o.asJSON {
		return writeJSON(out, map[string]any{"analysis": analysis, "document": doc.Metadata})
	}
	printer := observability.NewPrinter(out)
	printer.PrintReadiness(analysis)
	printer.PrintAchievements(earned)
	if o.reportPath != "" {
		fmt.Fprintf(out, "Report: %s\n", o.reportPath)
	}
	return nil
}
