// Package cmd implements the pjdfstest command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/musikid/pjdfstest/config"
	"github.com/musikid/pjdfstest/features"
	"github.com/musikid/pjdfstest/harness"
	"github.com/musikid/pjdfstest/lib/log"
)

var (
	configFile   string
	suitePath    string
	secondaryFs  string
	exact        bool
	verbose      bool
	listFeatures bool
)

// Root is the main pjdfstest command.
var Root = &cobra.Command{
	Use:   "pjdfstest [flags] [test-patterns...]",
	Short: "Test POSIX filesystem semantics",
	Long: `pjdfstest runs a suite of conformance tests against the filesystem
holding the execution path, verifying POSIX/BSD semantics for file
metadata and namespace operations.

Test names match any of the given patterns as substrings, or exactly
with --exact. Without patterns the whole registry runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(command *cobra.Command, args []string) error {
		if listFeatures {
			for _, f := range features.List() {
				fmt.Printf("%s: %s\n", f, f.Doc())
			}
			return nil
		}
		return runSuite(args)
	},
}

func init() {
	addFlags(Root.Flags())
}

// addFlags registers the command line flags on the given flag set.
func addFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&configFile, "config", "c", "", "Path of the configuration file")
	flags.StringVarP(&suitePath, "path", "p", "", "Path where the test suite will be executed (default current directory)")
	flags.StringVar(&secondaryFs, "secondary-fs", "", "Path to a secondary file system")
	flags.BoolVar(&exact, "exact", false, "Match test names exactly")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
	flags.BoolVar(&listFeatures, "list-features", false, "List opt-in features")
}

func runSuite(patterns []string) error {
	log.SetVerbose(verbose)

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if secondaryFs != "" {
		cfg.Features.SecondaryFs = secondaryFs
	}

	path := suitePath
	if path == "" {
		path, err = os.Getwd()
		if err != nil {
			log.Fatalf("cannot get current dir: %v", err)
		}
	}
	baseDir, err := os.MkdirTemp(path, "pjdfstest")
	if err != nil {
		log.Fatalf("failed to create suite directory in %q: %v", path, err)
	}
	defer func() {
		_ = os.RemoveAll(baseDir)
	}()

	caps := features.Probe(baseDir)
	log.Debugf("capabilities: %+v", caps)

	cases := filterCases(harness.TestCases(), patterns)

	runner := &harness.Runner{
		Config:  cfg,
		Caps:    caps,
		BaseDir: baseDir,
		Verbose: verbose,
		Out:     os.Stdout,
	}
	summary, err := runner.Run(cases)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("\nTests: %d failed, %d skipped, %d passed, %d total\n",
		summary.Failed, summary.Skipped, summary.Passed, summary.Total())

	if summary.Failed > 0 {
		return fmt.Errorf("some tests have failed")
	}
	return nil
}

// filterCases keeps the cases whose full name matches any pattern.
func filterCases(cases []*harness.TestCase, patterns []string) []*harness.TestCase {
	if len(patterns) == 0 {
		return cases
	}
	var out []*harness.TestCase
	for _, tc := range cases {
		name := tc.Group + "::" + tc.Name
		for _, pattern := range patterns {
			if (exact && name == pattern) || (!exact && strings.Contains(name, pattern)) {
				out = append(out, tc)
				break
			}
		}
	}
	return out
}

// Main runs the root command and exits non zero on failure.
func Main() {
	if err := Root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
