// (c) Copyright 2016 Hewlett Packard Enterprise Development LP
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/report"
)

const usageText = `
cwelookup - CVE and GitHub advisory to CWE resolver

cwelookup maps vulnerability identifiers to the weakness (CWE) they are
classified with, using a local NVD snapshot or the NVD API for CVEs and the
GitHub GraphQL API for GHSA advisories.

VERSION: %s
GIT TAG: %s
BUILD DATE: %s

USAGE:

	# Resolve CVEs against a snapshot of the NVD
	$ cwelookup resolve -n nvd.json -l CVE-2021-44228,CVE-2014-0160

	# Include GitHub advisories and save results in json format
	$ cwelookup resolve -n nvd.json -g token.txt --fmt=json --out=results.json GHSA-jfh8-c2jp-5v3q

	# Query the NVD API directly with a key stored in a file
	$ cwelookup resolve --api-key nvd.key -l CVE-2021-44228

	# Serve the REST and GraphQL API
	$ cwelookup serve -n nvd.json -g token.txt --addr :8080
`

// options holds the command line flags shared by resolve and serve
type options struct {
	list             string
	githubToken      string
	nvdDict          string
	apiKey           string
	mode             string
	conf             string
	format           string
	output           string
	concurrency      int
	timeout          time.Duration
	missingAsUnknown bool
	noColor          bool
	logFile          string
	quiet            bool
	verbose          bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	prepareVersionInfo()
	opts := &options{}
	root := &cobra.Command{
		Use:           "cwelookup",
		Short:         "Resolve CVE and GHSA identifiers to CWE ids",
		Long:          fmt.Sprintf(usageText, Version, GitTag, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.githubToken, "github-token", "g", "", "File holding the GitHub token on its first line")
	flags.StringVarP(&opts.nvdDict, "nvd-dict", "n", "", "NVD snapshot file used in snapshot mode")
	flags.StringVar(&opts.apiKey, "api-key", "", "NVD API key, or a file holding it; selects direct mode")
	flags.StringVar(&opts.mode, "mode", "", "Resolution mode for CVEs: snapshot or direct")
	flags.StringVar(&opts.conf, "conf", "", "Path to optional config file")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "Number of identifiers resolved in parallel")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Timeout of each remote request")
	flags.BoolVar(&opts.missingAsUnknown, "missing-as-unknown", false, "Report CVEs absent from the snapshot as CWE-unknown")
	flags.StringVar(&opts.logFile, "log", "", "Log messages to file rather than stderr")
	flags.BoolVar(&opts.quiet, "quiet", false, "Discard log messages")
	flags.BoolVar(&opts.verbose, "verbose", false, "Log every lookup")

	addResolve(root, opts)
	addServe(root, opts)
	addVersion(root)
	return root
}

// loadConfig reads the optional config file and applies the command line
// flags on top of it
func loadConfig(cmd *cobra.Command, opts *options) (*cwelookup.Config, error) {
	config := cwelookup.NewConfig()
	if opts.conf != "" {
		file, err := os.Open(opts.conf) // #nosec G304
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if _, err := config.ReadFrom(file); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if opts.githubToken != "" {
		config.GitHubTokenFile = opts.githubToken
	}
	if opts.nvdDict != "" {
		config.SnapshotPath = opts.nvdDict
	}
	if opts.apiKey != "" {
		config.NVDAPIKey = opts.apiKey
		config.Mode = cwelookup.ModeDirect
	}
	if opts.mode != "" {
		mode, err := cwelookup.ParseMode(opts.mode)
		if err != nil {
			return nil, err
		}
		config.Mode = mode
	}
	if flags.Changed("concurrency") {
		config.Concurrency = opts.concurrency
	}
	if flags.Changed("timeout") {
		config.Timeout = opts.timeout
	}
	if opts.missingAsUnknown {
		config.MissingAsUnknown = true
	}
	return config, config.Validate()
}

// collectIdentifiers merges the comma separated list with the positional
// arguments, dropping empty entries
func collectIdentifiers(list string, args []string) []string {
	var ids []string
	for _, chunk := range append([]string{list}, args...) {
		for _, id := range strings.Split(chunk, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func saveOutput(stdout io.Writer, filename, format string, enableColor bool, batch *cwelookup.Batch) error {
	if filename != "" {
		outfile, err := os.Create(filename) // #nosec G304
		if err != nil {
			return err
		}
		defer outfile.Close()
		return report.CreateReport(outfile, format, false, batch)
	}
	return report.CreateReport(stdout, format, enableColor, batch)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err) // #nosec
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
