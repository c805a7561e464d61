//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI with the given arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// Fetch pulls the current year of all tracked journals from OpenAlex.
func Fetch() error {
	mg.Deps(Build)
	return run("fetch", "top3", strconv.Itoa(time.Now().Year()))
}

// Rank prints the author ranking across all stored journals and saves the CSV.
func Rank() error {
	mg.Deps(Build)
	return run("rank", "top3", "--csv")
}

// Export writes the website JSON under docs/data.
func Export() error {
	mg.Deps(Build)
	return run("export")
}

// Serve starts the ranking dashboard.
func Serve() error {
	mg.Deps(Build)
	return run("serve")
}
