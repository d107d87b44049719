package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkab-io/arkab/internal/audit"
)

var tailLines int

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of entries to show")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the hash-chained audit log",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <audit.jsonl>",
	Short: "Verify the audit log hash chain and entry validity",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if result.Valid {
		fmt.Printf("OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Printf("FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

var auditTailCmd = &cobra.Command{
	Use:   "tail <audit.jsonl>",
	Short: "Show the most recent decisions in the audit log",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTail,
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > tailLines {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}

	for _, line := range lines {
		fmt.Println(formatAuditLine(line))
	}
	return nil
}

// formatAuditLine renders one audit entry as a single human-readable line.
// Unparseable lines are passed through raw so corruption stays visible.
func formatAuditLine(line string) string {
	var entry audit.AuditEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line
	}
	return fmt.Sprintf("%s  %-8s %-24s conf=%.2f  threat=%s src=%s batch=%s  %s",
		entry.Timestamp,
		entry.Action,
		entry.Evidence.EntityID,
		entry.Confidence,
		entry.Evidence.ThreatLevel,
		entry.Evidence.Source,
		entry.BatchID,
		entry.Reasoning,
	)
}
