package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["analyze"])
	assert.True(t, names["runs"])
	assert.True(t, names["serve"])
}

func TestRunsSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["show"])
}

func TestAnalyzeFlags(t *testing.T) {
	for _, flag := range []string{"input", "report", "no-enrich", "no-store"} {
		require.NotNil(t, analyzeCmd.Flags().Lookup(flag), "flag %s", flag)
	}
}
