package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpcore/pkg/application/dto"
	"github.com/vsinha/mrpcore/pkg/interfaces/cli/output"
)

// writeScenario writes the two-level scenario with dates relative to today,
// since the plan command runs on the system clock
func writeScenario(t *testing.T, cyclic bool) string {
	t.Helper()
	dir := t.TempDir()
	day := func(n int) string {
		return time.Now().UTC().AddDate(0, 0, n).Format("2006-01-02")
	}
	write := func(name string, lines ...string) {
		content := strings.Join(lines, "\n") + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("products.csv",
		"facility_id,product_id,description,lead_time_days,lot_size_rule,lot_size,min_qty,max_qty,increment,safety_stock,procurement",
		"F1,P,Finished good,5,lot_for_lot,,,,,,",
		"F1,C,Component,5,lot_for_lot,,,,,,")
	edges := []string{"facility_id,parent_id,child_id,qty_per,effective_from,effective_to", "F1,P,C,2,,"}
	if cyclic {
		edges = append(edges, "F1,C,P,1,,")
	}
	write("components.csv", edges...)
	write("demand.csv",
		"facility_id,product_id,quantity,due_date,kind,reference",
		"F1,P,10,"+day(20)+",sales,SO-1")
	return dir
}

func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--log-level", "error"))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), ExitCode(err)
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("MRP_STORE_DRIVER", "memory")
	t.Setenv("MRP_LOCK_DRIVER", "memory")
	t.Setenv("MRP_METRICS_PUSHGATEWAY_URL", "")
}

func TestPlanCommand_JSON(t *testing.T) {
	isolateConfig(t)
	scenario := writeScenario(t, false)

	stdout, code := execute(t, "plan", "--facility", "F1", "--scenario", scenario, "--horizon", "60", "--format", "json")

	require.Equal(t, 0, code, stdout)
	var result dto.RunResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.NotNil(t, result.Plan)
	assert.Len(t, result.Plan.PlannedOrders, 2)
	assert.Equal(t, "P", result.Plan.PlannedOrders[0].ProductID)
}

func TestPlanCommand_ExitCodes(t *testing.T) {
	testCases := []struct {
		name     string
		cyclic   bool
		args     []string
		expected int
	}{
		{"unknown facility", false, []string{"--facility", "NOWHERE"}, int(dto.CodeInvalidInput)},
		{"zero horizon", false, []string{"--facility", "F1", "--horizon", "0"}, int(dto.CodeInvalidInput)},
		{"unknown mode", false, []string{"--facility", "F1", "--mode", "weekly"}, int(dto.CodeInvalidInput)},
		{"cyclic structure", true, []string{"--facility", "F1"}, int(dto.CodeFatal)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolateConfig(t)
			scenario := writeScenario(t, tc.cyclic)

			args := append([]string{"plan", "--scenario", scenario}, tc.args...)
			_, code := execute(t, args...)

			assert.Equal(t, tc.expected, code)
		})
	}
}

func TestPlanCommand_MissingScenario(t *testing.T) {
	isolateConfig(t)

	_, code := execute(t, "plan", "--facility", "F1", "--scenario", filepath.Join(t.TempDir(), "absent"))
	assert.Equal(t, int(dto.CodeInvalidInput), code)

	_, code = execute(t, "plan", "--scenario", "somewhere")
	assert.Equal(t, exitUsage, code, "missing --facility is a usage error")
}

func TestHistoryCommand_WithSQLiteStore(t *testing.T) {
	isolateConfig(t)
	t.Setenv("MRP_STORE_DRIVER", "sqlite")
	t.Setenv("MRP_STORE_DSN", filepath.Join(t.TempDir(), "plans.db"))
	scenario := writeScenario(t, false)

	_, code := execute(t, "plan", "--facility", "F1", "--scenario", scenario, "--horizon", "60")
	require.Equal(t, 0, code)
	_, code = execute(t, "plan", "--facility", "F1", "--scenario", scenario, "--horizon", "60", "--mode", "net-change")
	require.Equal(t, 0, code)

	stdout, code := execute(t, "history", "--facility", "F1", "--format", "json")
	require.Equal(t, 0, code)

	var entries []output.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "regenerate", entries[0].Mode)
	assert.Equal(t, "net-change", entries[1].Mode)
	assert.Equal(t, entries[0].PlanID, entries[1].PreviousPlanID)
	assert.Equal(t, 0, entries[1].Changes)
}

func TestPlanCommand_UnreachableStoreIsFatal(t *testing.T) {
	isolateConfig(t)
	t.Setenv("MRP_STORE_DRIVER", "sqlite")
	t.Setenv("MRP_STORE_DSN", filepath.Join(t.TempDir(), "missing", "plans.db"))
	scenario := writeScenario(t, false)

	_, code := execute(t, "plan", "--facility", "F1", "--scenario", scenario, "--horizon", "60")
	assert.Equal(t, int(dto.CodeFatal), code)

	t.Setenv("MRP_STORE_DRIVER", "oracle")
	_, code = execute(t, "plan", "--facility", "F1", "--scenario", scenario, "--horizon", "60")
	assert.Equal(t, exitUsage, code, "unknown driver is a configuration error")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 4, ExitCode(withCode(4, nil)))
	assert.Equal(t, 3, ExitCode(withCode(3, errors.New("boom"))))
	assert.Equal(t, exitUsage, ExitCode(errors.New("unknown flag")))
}
