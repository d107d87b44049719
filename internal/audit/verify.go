package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/arkab-io/arkab/internal/model"
)

// VerifyResult holds the outcome of an audit log verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify walks a JSONL audit log and validates two things per line: the
// hash chain (prev_hash matches the SHA-256 of the previous line, genesis
// for the first), and the recorded decision itself — action in the closed
// response set, confidence in [0.0, 1.0], non-empty decision ID. A line
// whose chain is intact but whose decision is impossible is still
// tampering.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	fail := func(line int, format string, args ...any) VerifyResult {
		return VerifyResult{Error: fmt.Sprintf(format, args...), ErrorLine: line}
	}

	scanner := bufio.NewScanner(f)
	lineNum := 0
	var prevLine []byte

	for scanner.Scan() {
		lineNum++

		// Copy out of the scanner's reused buffer.
		line := append([]byte(nil), scanner.Bytes()...)

		var entry AuditEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return fail(lineNum, "parse error: %v", err)
		}

		if lineNum == 1 {
			if entry.PrevHash != GenesisHash {
				return fail(1, "first entry prev_hash is %q, expected genesis hash", entry.PrevHash)
			}
		} else if want := HashLine(prevLine); entry.PrevHash != want {
			return fail(lineNum, "hash mismatch: expected %s, got %s", want, entry.PrevHash)
		}

		if err := checkEntry(entry); err != nil {
			return fail(lineNum, "invalid entry: %v", err)
		}

		prevLine = line
	}

	if err := scanner.Err(); err != nil {
		return VerifyResult{Error: fmt.Sprintf("scan: %v", err)}
	}

	return VerifyResult{Valid: true, Lines: lineNum}
}

// checkEntry validates the decision fields a well-formed writer can never
// get wrong.
func checkEntry(e AuditEntry) error {
	if e.DecisionID == "" {
		return fmt.Errorf("missing decision_id")
	}
	if _, err := model.ParseAction(e.Action); err != nil {
		return err
	}
	if e.Confidence < 0.0 || e.Confidence > 1.0 {
		return fmt.Errorf("confidence %v outside [0.0, 1.0]", e.Confidence)
	}
	return nil
}
