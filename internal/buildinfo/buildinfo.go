// Package buildinfo holds version data set at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/cakeplanner/internal/buildinfo.buildVersion=v1.0.0" ./cmd/cli
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const notAvailable = "N/A"

func value(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func Version() string { return value(buildVersion) }
func Date() string    { return value(buildDate) }
func Commit() string  { return value(buildCommit) }

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version())
	fmt.Fprintf(w, "Build date: %s\n", Date())
	fmt.Fprintf(w, "Build commit: %s\n", Commit())
}
