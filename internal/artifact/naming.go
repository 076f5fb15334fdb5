// Package artifact names and writes the files a run leaves next to its input:
// the reformatted copy and the byte-for-byte backup.
package artifact

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Default suffixes appended to the input's base name.
const (
	DefaultReformattedSuffix = "_reformatted"
	DefaultBackupSuffix      = "_backup"
)

// Naming controls how artifact paths are derived from an input path.
type Naming struct {
	ReformattedSuffix string
	BackupSuffix      string
	// Overwrite reuses existing artifact names instead of numbering new ones.
	Overwrite bool
}

// DefaultNaming returns the default suffixes without overwriting.
func DefaultNaming() Naming {
	return Naming{
		ReformattedSuffix: DefaultReformattedSuffix,
		BackupSuffix:      DefaultBackupSuffix,
	}
}

// Paths holds the artifact locations for one input.
type Paths struct {
	Output string
	Backup string
}

// Plan returns the output and backup paths for input, in the input's directory
// and with its extension. Unless Overwrite is set, names already taken get a
// numeric suffix (see UniqueName).
func (n Naming) Plan(input string) Paths {
	output := SuffixedPath(input, n.ReformattedSuffix)
	backup := SuffixedPath(input, n.BackupSuffix)

	if !n.Overwrite {
		output = filepath.Join(filepath.Dir(output), UniqueName(filepath.Dir(output), filepath.Base(output)))
		backup = filepath.Join(filepath.Dir(backup), UniqueName(filepath.Dir(backup), filepath.Base(backup)))
	}

	return Paths{Output: output, Backup: backup}
}

// IsArtifact reports whether path looks like a file produced by Plan,
// including numbered variants such as "export_backup_3.csv".
func (n Naming) IsArtifact(path string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = numberedPattern.ReplaceAllString(stem, "")

	for _, suffix := range []string{n.ReformattedSuffix, n.BackupSuffix} {
		if suffix != "" && strings.HasSuffix(stem, suffix) {
			return true
		}
	}
	return false
}

// SuffixedPath inserts suffix between the base name and the extension.
//
// Examples:
//   - ("data/export.csv", "_backup") -> "data/export_backup.csv"
//   - ("Commissions.xlsx", "_reformatted") -> "Commissions_reformatted.xlsx"
func SuffixedPath(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// numberedPattern matches the "_N" counter UniqueName appends.
var numberedPattern = regexp.MustCompile(`_(\d+)$`)

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// UniqueName returns filename if it is free in dir. Otherwise it appends
// "_2", "_3", ... before the extension until the name is free.
//
// Examples:
//   - "export_backup.csv" -> "export_backup_2.csv" (if export_backup.csv exists)
//   - "export_backup_2.csv" -> "export_backup_3.csv" (if export_backup_2.csv exists)
func UniqueName(dir, filename string) string {
	if !FileExists(filepath.Join(dir, filename)) {
		return filename
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	next := 2
	if matches := numberedPattern.FindStringSubmatch(stem); matches != nil {
		num, _ := strconv.Atoi(matches[1])
		stem = strings.TrimSuffix(stem, matches[0])
		next = num + 1
	}

	for n := next; ; n++ {
		candidate := stem + "_" + strconv.Itoa(n) + ext
		if !FileExists(filepath.Join(dir, candidate)) {
			return candidate
		}
	}
}
