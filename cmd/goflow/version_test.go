// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVersion(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{"no build info", nil, "goflow 1.2.0"},
		{"toolchain only", &debug.BuildInfo{GoVersion: "go1.25.6"}, "goflow 1.2.0 go1.25.6"},
		{
			name: "clean revision is shortened",
			info: &debug.BuildInfo{GoVersion: "go1.25.6", Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.modified", Value: "false"},
			}},
			want: "goflow 1.2.0 (0123456789ab) go1.25.6",
		},
		{
			name: "modified tree is marked dirty",
			info: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			}},
			want: "goflow 1.2.0 (abc123-dirty)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildVersion("1.2.0", tt.info))
		})
	}
}

func TestVersionShort(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() {
		versionCmd.SetOut(nil)
		_ = versionCmd.Flags().Set("short", "false")
	})
	require.NoError(t, versionCmd.Flags().Set("short", "true"))

	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	assert.Equal(t, version+"\n", out.String())
}
