package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rileyhilliard/pingboard/internal/targets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTargets_Table(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, listTargets(&buf, onceGroups(), false))

	out := buf.String()
	assert.Contains(t, out, "GROUP")
	assert.Contains(t, out, "Web")
	assert.Contains(t, out, "dead.example")
	assert.Contains(t, out, "4 targets in 2 groups")
}

func TestListTargets_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, listTargets(&buf, onceGroups(), true))

	var env struct {
		Success bool          `json:"success"`
		Data    []TargetGroup `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "DNS", env.Data[1].Name)
	assert.Equal(t, []string{"dead.example", "good.example"}, env.Data[1].Targets)
}

func TestListTargets_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, listTargets(&buf, nil, false))
	assert.Contains(t, buf.String(), "No targets configured.")
}

func TestListTargets_BuiltInCatalog(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, listTargets(&buf, targets.Catalog(), false))
	assert.Contains(t, buf.String(), "8.8.8.8")
}
