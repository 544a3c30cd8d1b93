package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/securego/cwelookup/internal/sources"
)

// Version is the build version
var Version string

// GitTag is the git tag of the build
var GitTag string

// BuildDate is the date when the build was created
var BuildDate string

// prepareVersionInfo sets some runtime version when the version value
// was not injected by the build into the binary (e.g. go install).
func prepareVersionInfo() {
	if Version == "" {
		Version = "dev"
	}
	sources.UserAgent = "cwelookup/" + Version
}

func addVersion(parentCmd *cobra.Command) {
	parentCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\nGit tag: %s\nBuild date: %s\n", Version, GitTag, BuildDate)
		},
	})
}
