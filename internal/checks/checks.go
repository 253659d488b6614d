// Package checks evaluates the hygiene of a replication package
// checkout before correspondence is sent: required files, empty files,
// and files too large to commit.
package checks

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/restud-replication-packages/restud/internal/report"
)

// SizeLimit is the largest file that should be committed to a package
// repository. Larger files stay on the archive service.
const SizeLimit = 20 * 1024 * 1024

// Check represents a single package hygiene check.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Checker evaluates a package checkout.
type Checker struct{}

// NewChecker returns a new Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Run evaluates all checks for a package at the given path.
func (c *Checker) Run(path string) []Check {
	var checks []Check

	checks = append(checks, checkReport(path))
	checks = append(checks, checkFile(path, "README.md", "README"))
	checks = append(checks, checkFile(path, ".zenodo", "Archive record reference"))
	checks = append(checks, checkEmptyFiles(path))
	checks = append(checks, checkLargeFiles(path))

	return checks
}

func checkFile(base, name, label string) Check {
	_, err := os.Stat(filepath.Join(base, name))
	if err == nil {
		return Check{Name: label, Passed: true, Detail: name + " found"}
	}
	return Check{Name: label, Passed: false, Detail: name + " missing"}
}

// checkReport verifies that report.yaml exists and validates.
func checkReport(base string) Check {
	path := filepath.Join(base, report.Filename)
	if _, err := os.Stat(path); err != nil {
		return Check{Name: "Report", Passed: false, Detail: report.Filename + " missing"}
	}
	if _, err := report.Load(path); err != nil {
		return Check{Name: "Report", Passed: false, Detail: err.Error()}
	}
	return Check{Name: "Report", Passed: true, Detail: report.Filename + " valid"}
}

// checkEmptyFiles flags zero-byte files, which usually indicate a
// truncated upload or extraction.
func checkEmptyFiles(base string) Check {
	empty := walkFiles(base, func(info fs.FileInfo) bool {
		return info.Size() == 0
	})
	if len(empty) == 0 {
		return Check{Name: "Empty files", Passed: true, Detail: "none found"}
	}
	return Check{
		Name:   "Empty files",
		Passed: false,
		Detail: fmt.Sprintf("%d empty: %s", len(empty), strings.Join(empty, ", ")),
	}
}

// checkLargeFiles flags files over SizeLimit.
func checkLargeFiles(base string) Check {
	large := walkFiles(base, func(info fs.FileInfo) bool {
		return info.Size() > SizeLimit
	})
	if len(large) == 0 {
		return Check{Name: "Large files", Passed: true, Detail: "none over 20MB"}
	}
	return Check{
		Name:   "Large files",
		Passed: false,
		Detail: fmt.Sprintf("%d over 20MB: %s", len(large), strings.Join(large, ", ")),
	}
}

// walkFiles returns relative paths of regular files matching the
// predicate, skipping .git.
func walkFiles(base string, match func(fs.FileInfo) bool) []string {
	var found []string
	filepath.Walk(base, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if match(info) {
			rel, relErr := filepath.Rel(base, p)
			if relErr != nil {
				rel = p
			}
			found = append(found, rel)
		}
		return nil
	})
	return found
}
