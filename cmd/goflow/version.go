// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the goflow version and build details",
	Long: `Version prints the release version set at build time, followed by the
source revision and Go toolchain recorded in the binary. Use --short for the
release version alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, _ := cmd.Flags().GetBool("short")
		if short {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		}
		info, _ := debug.ReadBuildInfo()
		fmt.Fprintln(cmd.OutOrStdout(), buildVersion(version, info))
		return nil
	},
}

// buildVersion formats "goflow <version> [(<revision>[-dirty])] [<go version>]".
// A nil info (binary built without module support) yields the version only.
func buildVersion(v string, info *debug.BuildInfo) string {
	parts := []string{"goflow", v}
	if info == nil {
		return strings.Join(parts, " ")
	}

	var revision string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if revision != "" {
		if dirty {
			revision += "-dirty"
		}
		parts = append(parts, "("+revision+")")
	}
	if info.GoVersion != "" {
		parts = append(parts, info.GoVersion)
	}
	return strings.Join(parts, " ")
}

func init() {
	versionCmd.Flags().Bool("short", false, "print only the release version")

	rootCmd.AddCommand(versionCmd)
}
