package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/advisor"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/server"
	"github.com/jonathan/career-assistant/internal/server/ratelimit"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes REST endpoints for profiles, assessments, skill gaps, resume readiness, mock interviews and advice.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			return runServe(cmd.Context(), a)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	store, err := a.profiles(ctx)
	if err != nil {
		return err
	}
	client, err := a.generator(ctx)
	if err != nil {
		return err
	}

	managerOpts := []interview.ManagerOption{interview.WithTTL(a.cfg.SessionTTL.Std())}
	if a.db != nil {
		managerOpts = append(managerOpts, interview.WithRecorder(a.db))
	}

	limits := ratelimit.DefaultConfig(a.cfg.RateLimitDefault)
	limits.Enabled = a.cfg.RateLimitEnabled()

	srv, err := server.New(server.Config{Port: a.cfg.Port, RateLimit: limits}, server.Deps{
		Store:      store,
		Interviews: interview.NewManager(interview.NewLLMEvaluator(client), a.log, managerOpts...),
		Advisor:    advisor.New(client, a.log),
		Loader:     a.loader(ctx),
		History:    a.db,
		Log:        a.log,
	})
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
