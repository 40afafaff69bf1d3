package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dsamoylenko/snyksweep/internal/application"
	"github.com/dsamoylenko/snyksweep/internal/infrastructure/storage"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show what previous runs deleted",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := auditService()
		if err != nil {
			return err
		}

		events, err := service.Timeline()
		if err != nil {
			return fmt.Errorf("load audit trail: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("Audit trail is empty.")
			return nil
		}

		for _, e := range events {
			line := fmt.Sprintf("%s  %-16s org=%s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Org)
			if len(e.Metadata) > 0 {
				keys := make([]string, 0, len(e.Metadata))
				for k := range e.Metadata {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				parts := make([]string, 0, len(keys))
				for _, k := range keys {
					parts = append(parts, fmt.Sprintf("%s=%v", k, e.Metadata[k]))
				}
				line += "  " + strings.Join(parts, " ")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the integrity of the audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := auditService()
		if err != nil {
			return err
		}

		fmt.Println("Verifying audit trail integrity...")
		violations, err := service.VerifyIntegrity()
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		if len(violations) == 0 {
			fmt.Println("Audit trail is intact and verified.")
			return nil
		}

		fmt.Printf("Found %d integrity violations:\n", len(violations))
		for _, v := range violations {
			fmt.Printf("  - %s\n", v)
		}
		os.Exit(1)
		return nil
	},
}

func auditService() (*application.AuditService, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return application.NewAuditService(storage.NewAuditLog(home)), nil
}

func init() {
	auditCmd.AddCommand(auditVerifyCmd)
	RootCmd.AddCommand(auditCmd)
}
