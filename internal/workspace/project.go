package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archive is the per-document record kept under reports/.
type Archive struct {
	Source    string    `json:"source"`
	Score     int       `json:"score"`
	Grade     string    `json:"grade"`
	CheckedAt time.Time `json:"checked_at"`
	Report    any       `json:"report,omitempty"`
}

type ArchiveInfo struct {
	ID         string
	Root       string
	ReportPath string
}

// SaveArchive writes the report for source into its own directory under
// the workspace. The directory is keyed on the cleaned source path, so
// re-checking a file overwrites its previous report.
func SaveArchive(workspaceRoot string, a Archive) (*ArchiveInfo, error) {
	id := sourceHash(a.Source)
	reportPath := ArchivePath(workspaceRoot, a.Source)
	root := filepath.Dir(reportPath)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(reportPath, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return &ArchiveInfo{ID: id, Root: root, ReportPath: reportPath}, nil
}

// ArchivePath is where SaveArchive writes the report for source.
func ArchivePath(workspaceRoot, source string) string {
	return filepath.Join(workspaceRoot, "reports", sourceHash(source), "report.json")
}

func LoadArchive(path string) (*Archive, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var a Archive
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &a, nil
}

func sourceHash(source string) string {
	trimmed := strings.TrimSpace(source)
	if abs, err := filepath.Abs(trimmed); err == nil && trimmed != "" && trimmed != "-" {
		trimmed = abs
	}
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])[:12]
}
