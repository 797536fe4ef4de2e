package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/backup"
	"github.com/jonathan/career-assistant/internal/profile"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore all profiles",
		Long: `Write every profile to a zip archive with metadata, or restore profiles from one.
Archives go to the configured S3-compatible bucket when backup.bucket (BACKUP_S3_BUCKET)
is set, otherwise to the local backup directory.`,
	}
	cmd.AddCommand(newBackupCreateCmd(opts), newBackupRestoreCmd(opts), newBackupListCmd(opts))
	return cmd
}

func backupTarget(ctx context.Context, a *app) (backup.Target, error) {
	if a.cfg.Backup.Bucket != "" {
		return backup.NewS3Target(ctx, a.cfg.Backup)
	}
	return backup.DirTarget{Dir: a.cfg.Backup.Dir}, nil
}

func newBackupCreateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Archive every profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, opts, func(ctx context.Context, a *app, store profile.Store) error {
				target, err := backupTarget(ctx, a)
				if err != nil {
					return err
				}
				res, err := backup.Run(ctx, store, target, time.Now(), a.log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d profile(s) to %s\n", res.Metadata.TotalProfiles, res.Location)
				return nil
			})
		},
	}
}

func newBackupRestoreCmd(opts *rootOptions) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "restore [KEY]",
		Short: "Restore profiles from an archive, the newest one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(ctx context.Context, a *app, store profile.Store) error {
				target, err := backupTarget(ctx, a)
				if err != nil {
					return err
				}
				var key string
				if len(args) == 1 {
					key = args[0]
				} else if key, err = backup.Latest(ctx, target); err != nil {
					return err
				}

				res, err := backup.Restore(ctx, store, target, key, overwrite)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Restored %d profile(s) from %s\n", len(res.Restored), target.Location(key))
				if len(res.Skipped) > 0 {
					fmt.Fprintf(out, "Skipped %d existing profile(s) (use --overwrite to replace)\n", len(res.Skipped))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace profiles that already exist")
	return cmd
}

func newBackupListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archives, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			target, err := backupTarget(cmd.Context(), a)
			if err != nil {
				return err
			}
			keys, err := target.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}
