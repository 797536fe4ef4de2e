package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/gaps"
	"github.com/jonathan/career-assistant/internal/observability"
	"github.com/jonathan/career-assistant/internal/requirements"
	"github.com/jonathan/career-assistant/internal/validation"
)

type gapsOptions struct {
	role        string
	skills      map[string]int
	profileName string
	asJSON      bool
}

func newGapsCmd(opts *rootOptions) *cobra.Command {
	var o gapsOptions
	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Compare skill ratings with a role's requirements",
		Long:  "Compute per-skill gaps, a summary and a ranked learning plan from --skill ratings or a stored profile's self-assessment.",
		Example: `  career_agent gaps --role "Data Science" --skill Python=7 --skill SQL=5
  career_agent gaps --role DevOps --profile "Ada Lovelace" --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			return runGaps(cmd.Context(), a, cmd.OutOrStdout(), o)
		},
	}
	cmd.Flags().StringVarP(&o.role, "role", "r", "", "Target role or career field (required)")
	cmd.Flags().StringToIntVarP(&o.skills, "skill", "s", nil, "Skill rating as name=level, repeatable")
	cmd.Flags().StringVar(&o.profileName, "profile", "", "Use this profile's skill assessment")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Print JSON instead of text")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

type gapsReport struct {
	Role       string              `json:"role"`
	Gaps       map[string]gaps.Gap `json:"gaps"`
	Summary    gaps.Summary        `json:"summary"`
	Plan       []gaps.PlanItem     `json:"plan"`
	Projection gaps.Timeline       `json:"projection"`
}

func runGaps(ctx context.Context, a *app, out io.Writer, o gapsOptions) error {
	catalog := requirements.Default()
	role, ok := catalog.Lookup(o.role)
	if !ok {
		return validation.New("role", fmt.Sprintf("unknown role %q (want one of %s)", o.role, strings.Join(catalog.Roles(), ", ")))
	}

	current := o.skills
	if o.profileName != "" {
		p, err := loadNamedProfile(ctx, a, o.profileName)
		if err != nil {
			return err
		}
		current = p.SkillAssessment
	}

	result := gaps.Calculate(gaps.ClampAll(current), role.Name, catalog)
	report := gapsReport{
		Role:       role.Name,
		Gaps:       result,
		Summary:    gaps.Summarize(result),
		Plan:       gaps.LearningPlan(result),
		Projection: gaps.Projection(result),
	}
	if o.asJSON {
		return writeJSON(out, report)
	}
	observability.NewPrinter(out).PrintGaps(report.Role, report.Summary, report.Plan, report.Projection)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
