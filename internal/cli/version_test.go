package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withBuildInfo swaps in build metadata for one test.
func withBuildInfo(t *testing.T, v, c, d string) {
	t.Helper()
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() { version, commit, date = origVersion, origCommit, origDate })
	version, commit, date = v, c, d
}

func renderVersion(short bool) string {
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "version"}
	cmd.SetOut(&buf)
	printVersion(cmd, short)
	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		short   bool
		want    []string
		exact   string
	}{
		{
			name:    "release build",
			version: "0.4.1",
			want: []string{
				"pingboard v0.4.1\n",
				"commit: 9f3c2aa\n",
				"built: 2026-03-02T08:30:00Z\n",
				"go: " + runtime.Version(),
				"os/arch: " + runtime.GOOS + "/" + runtime.GOARCH,
			},
		},
		{
			name:    "local build keeps dev bare",
			version: "dev",
			want:    []string{"pingboard dev\n"},
		},
		{
			name:    "short prints the raw version",
			version: "0.4.1",
			short:   true,
			exact:   "0.4.1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, tt.version, "9f3c2aa", "2026-03-02T08:30:00Z")

			out := renderVersion(tt.short)
			if tt.exact != "" {
				assert.Equal(t, tt.exact, out)
			}
			for _, part := range tt.want {
				assert.Contains(t, out, part)
			}
		})
	}
}

func TestVersionCmd_ShortFlagReachesOutput(t *testing.T) {
	withBuildInfo(t, "0.4.1", "9f3c2aa", "unknown")
	t.Cleanup(func() { versionShort = false })

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	require.NoError(t, versionCmd.Flags().Set("short", "true"))
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "0.4.1\n", buf.String())
}

func TestFormatVersion(t *testing.T) {
	for in, want := range map[string]string{
		"":           "",
		"dev":        "dev",
		"0.4.1":      "v0.4.1",
		"v0.4.1":     "v0.4.1",
		"0.5.0-rc.2": "v0.5.0-rc.2",
	} {
		assert.Equal(t, want, formatVersion(in), "formatVersion(%q)", in)
	}
}

func TestSetVersionInfo(t *testing.T) {
	withBuildInfo(t, "dev", "none", "unknown")

	SetVersionInfo("1.0.0", "c0ffee1", "2026-10-01T00:00:00Z")

	assert.Equal(t, "1.0.0", GetVersion())
	assert.Equal(t, "c0ffee1", commit)
	assert.Equal(t, "2026-10-01T00:00:00Z", date)
}
