package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRoot()
	root.SetArgs(args)
	return root.Execute()
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), ".fieldlog")
	t.Setenv("FIELDLOG_HOME", home)
	require.NoError(t, runCmd(t, "init"))
	return home
}

func TestCommandsRequireInit(t *testing.T) {
	t.Setenv("FIELDLOG_HOME", filepath.Join(t.TempDir(), ".fieldlog"))
	err := runCmd(t, "operation", "start")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fieldlog init")
}

func TestInitCreatesHome(t *testing.T) {
	home := setupHome(t)

	if _, err := os.Stat(filepath.Join(home, "setting.json")); err != nil {
		t.Fatalf("setting.json not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "reports")); err != nil {
		t.Fatalf("reports dir not created: %v", err)
	}

	// init is idempotent and keeps an existing setting.json
	require.NoError(t, runCmd(t, "init"))
}

func TestFullLifecycleThroughCommands(t *testing.T) {
	home := setupHome(t)

	require.NoError(t, runCmd(t, "displacement", "start",
		"--origin", "Base", "--destination", "Site A", "--start-km", "100"))
	require.NoError(t, runCmd(t, "displacement", "end", "--end-km", "150"))
	require.NoError(t, runCmd(t, "mobilization", "start"))
	require.NoError(t, runCmd(t, "mobilization", "end"))
	require.NoError(t, runCmd(t, "operation", "start"))
	require.NoError(t, runCmd(t, "operation", "save",
		"--type", "Transfer", "--city", "X", "--well-service", "Y", "--operator", "Z"))
	require.NoError(t, runCmd(t, "waiting", "start", "--reason", "crane unavailable"))
	require.NoError(t, runCmd(t, "waiting", "note", "--text", "still waiting"))
	require.NoError(t, runCmd(t, "waiting", "end"))
	require.NoError(t, runCmd(t, "lunch", "start"))
	require.NoError(t, runCmd(t, "lunch", "end"))
	require.NoError(t, runCmd(t, "refueling", "start", "--fuel", "water"))
	require.NoError(t, runCmd(t, "refueling", "end"))
	require.NoError(t, runCmd(t, "demobilization", "start"))
	require.NoError(t, runCmd(t, "demobilization", "end"))
	require.NoError(t, runCmd(t, "status"))

	data, err := os.ReadFile(filepath.Join(home, "history.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schema_version":1`)
	assert.Contains(t, string(data), `"type":"Transfer"`)
	assert.Contains(t, string(data), `"distanceKm":50`)
}

func TestLifecycleGuardsSurfaceAsErrors(t *testing.T) {
	setupHome(t)

	// Mobilization before displacement completes
	assert.Error(t, runCmd(t, "mobilization", "start"))

	// Save without an open draft
	assert.Error(t, runCmd(t, "operation", "save",
		"--type", "Transfer", "--city", "X", "--well-service", "Y", "--operator", "Z"))

	// Sub-events before any save
	assert.Error(t, runCmd(t, "waiting", "start", "--reason", "r"))
	assert.Error(t, runCmd(t, "demobilization", "start"))

	// Save missing a required field
	require.NoError(t, runCmd(t, "operation", "start"))
	assert.Error(t, runCmd(t, "operation", "save",
		"--type", "Transfer", "--city", "X", "--well-service", "Y"))
}

func TestReportCommandWritesFile(t *testing.T) {
	home := setupHome(t)

	require.NoError(t, runCmd(t, "profile", "set", "--name", "Alice", "--registration", "REG-7"))
	require.NoError(t, runCmd(t, "operation", "start"))
	require.NoError(t, runCmd(t, "operation", "save",
		"--type", "Transfer", "--city", "X", "--well-service", "Y", "--operator", "Z"))

	out := filepath.Join(home, "reports", "report.txt")
	require.NoError(t, runCmd(t, "report", "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FIELD OPERATIONS REPORT")
	assert.Contains(t, string(data), "Operator: Alice (REG-7)")
	assert.Contains(t, string(data), "Mobilization: not recorded")
}

func TestClearCommand(t *testing.T) {
	home := setupHome(t)

	require.NoError(t, runCmd(t, "operation", "start"))
	require.NoError(t, runCmd(t, "operation", "save",
		"--type", "Transfer", "--city", "X", "--well-service", "Y", "--operator", "Z"))
	require.NoError(t, runCmd(t, "clear", "--yes"))

	if _, err := os.Stat(filepath.Join(home, "history.json")); !os.IsNotExist(err) {
		t.Fatalf("history.json should be removed, stat err = %v", err)
	}
}

func TestSyncRequiresBucket(t *testing.T) {
	setupHome(t)
	err := runCmd(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync_bucket")
}

func TestProfileShowWithoutProfile(t *testing.T) {
	setupHome(t)
	assert.Error(t, runCmd(t, "profile", "show"))
}
