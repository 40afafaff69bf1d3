package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dsamoylenko/snyksweep/internal/application"
	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
	"github.com/dsamoylenko/snyksweep/internal/infrastructure/config"
	"github.com/dsamoylenko/snyksweep/internal/infrastructure/snyk"
	"github.com/dsamoylenko/snyksweep/internal/infrastructure/storage"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	tokenFlag   string
	deleteFlag  string
	targetsFlag bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "snyksweep [ORG]",
	Version: Version,
	Short:   "Review and prune stale Snyk projects and empty scan targets",
	Long: `Snyksweep groups the projects of a Snyk org by the date they were last
monitored, so stale imports stand out, and deletes the groups you approve.
Without arguments it lists the orgs your token can see; with an org id or
slug it shows that org's projects grouped by monitored date.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute runs the root command with the given context. The returned error
// may be a *CLIError carrying an exit code.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := newConsolePresenter(cmd.OutOrStdout())

	home, err := os.UserHomeDir()
	if err != nil {
		return NewCLIError("cannot resolve home directory", "Set the HOME environment variable", err)
	}

	cfg, err := config.Load(tokenFlag, home)
	if err != nil {
		return MapError(err)
	}
	if !cfg.TokenDiscovered() {
		out.Printf("%s\n", warnStyle.Render("Snyk API token was not provided and could not be discovered. Requests will likely fail."))
	}

	opts := []snyk.Option{snyk.WithTimeout(cfg.Timeout)}
	if cfg.Endpoint != "" {
		opts = append(opts, snyk.WithEndpoint(cfg.Endpoint))
	}
	client := snyk.NewClient(cfg.Token, opts...)

	out.Printf("Fetching Snyk org info... ")
	orgs, err := client.ListOrgs(ctx)
	if err != nil {
		return MapError(fmt.Errorf("fetch orgs: %w", err))
	}
	out.Printf("Got %d orgs.\n", len(orgs))

	if len(args) == 0 {
		out.Printf("\nList of all Snyk orgs:\n\n")
		out.OrgList(orgs)
		if len(orgs) > 0 {
			out.Printf("To select an org to work with, add its ID or slug to the command line. E.g., 'snyksweep %s'\n", orgs[0].Slug)
		}
		return nil
	}

	org, err := inventory.ResolveOrg(args[0], orgs)
	if err != nil {
		return MapError(err)
	}

	auditLog := storage.NewAuditLog(home)
	if err := auditLog.Initialize(); err != nil {
		out.Printf("warning: audit log: %v\n", err)
	}
	auditSvc := application.NewAuditService(auditLog)
	prompter := terminalPrompter{}

	cleanupSvc := application.NewCleanupService(client, prompter, out, auditSvc)

	if deleteFlag != "" {
		cutoff, err := time.ParseInLocation("2006-01-02", deleteFlag, time.Local)
		if err != nil {
			return NewCLIError(
				fmt.Sprintf("cannot parse --delete date %q", deleteFlag),
				"Use an ISO date, e.g. --delete 2024-01-31",
				err,
			)
		}
		if err := cleanupSvc.RunDeletion(ctx, org, cutoff); err != nil {
			return MapError(err)
		}
	} else {
		if err := cleanupSvc.ShowProjects(ctx, org); err != nil {
			return MapError(err)
		}
	}

	if targetsFlag {
		targetSvc := application.NewTargetService(client, prompter, out, auditSvc)
		if err := targetSvc.RunAudit(ctx, org); err != nil {
			return MapError(err)
		}
	}

	return nil
}

func init() {
	RootCmd.Flags().StringVar(&tokenFlag, "token", "", "Snyk API token (discovered from SNYK_TOKEN or the snyk CLI config when omitted)")
	RootCmd.Flags().StringVar(&deleteFlag, "delete", "", "delete projects last monitored on or before this date (YYYY-MM-DD)")
	RootCmd.Flags().BoolVar(&targetsFlag, "targets", false, "also review and delete scan targets that have no projects")
}
