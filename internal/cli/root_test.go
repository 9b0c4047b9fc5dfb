package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	for _, name := range []string{"once", "targets", "init", "version"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		})
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"interval", "timeout", "method", "port", "concurrency", "plain", "log-file"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "root is missing --%s", name)
	}
	for _, name := range []string{"config", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "root is missing persistent --%s", name)
	}

	assert.Nil(t, onceCmd.Flags().Lookup("plain"), "once has no panel to opt out of")
	assert.NotNil(t, onceCmd.Flags().Lookup("json"))
	assert.NotNil(t, targetsCmd.Flags().Lookup("json"))
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	require.Error(t, rootCmd.Args(rootCmd, []string{"google.com"}))
}

func TestReportedError(t *testing.T) {
	inner := fmt.Errorf("probe pass failed")
	err := fmt.Errorf("once: %w", &reportedError{err: inner})

	var reported *reportedError
	require.True(t, stderrors.As(err, &reported))
	assert.Equal(t, "probe pass failed", reported.Error())
	assert.ErrorIs(t, err, inner)
}
