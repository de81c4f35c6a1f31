package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/runner"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// sampleReport returns a report where base passed fully and advanced failed
// its setup.
func sampleReport() *runner.Report {
	res := func(id, scenario string, kind testcase.Kind, status runner.Status, reason, errMsg string) runner.Result {
		return runner.Result{
			ID:       id,
			Name:     id,
			Scenario: scenario,
			Kind:     kind,
			Status:   status,
			Reason:   reason,
			Error:    errMsg,
			Duration: time.Millisecond,
		}
	}
	return &runner.Report{
		RunID:       "run-42",
		Fingerprint: "00000000000000ab",
		Results: []runner.Result{
			res("setup[base]", "base", testcase.KindSetup, runner.StatusPassed, "", ""),
			res("attr_a[base-1]", "base", testcase.KindBody, runner.StatusPassed, "", ""),
			res("teardown[base]", "base", testcase.KindTeardown, runner.StatusPassed, "", ""),
			res("setup[advanced]", "advanced", testcase.KindSetup, runner.StatusFailed, "", "exit status 2\nstderr: boom"),
			res("attr_a[advanced-1]", "advanced", testcase.KindBody, runner.StatusSkipped, "setup failed for scenario advanced", ""),
			res("teardown[advanced]", "advanced", testcase.KindTeardown, runner.StatusPassed, "", ""),
		},
		SetupFailed: []string{"advanced"},
	}
}

// writeSampleReport saves sampleReport into a temp dir and returns its path.
func writeSampleReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, sampleReport().WriteJSON(path))
	return path
}

func TestGroupByScenario(t *testing.T) {
	groups := groupByScenario(sampleReport())
	require.Len(t, groups, 2)

	base := groups[0]
	assert.Equal(t, "base", base.Scenario)
	assert.Equal(t, 3, base.Total)
	assert.Equal(t, 3, base.Passed)
	assert.False(t, base.SetupFailed)
	assert.InDelta(t, 100.0, base.Percent, 0.001)

	adv := groups[1]
	assert.Equal(t, "advanced", adv.Scenario)
	assert.Equal(t, 3, adv.Total)
	assert.Equal(t, 1, adv.Passed)
	assert.Equal(t, 1, adv.Failed)
	assert.Equal(t, 1, adv.Skipped)
	assert.True(t, adv.SetupFailed)
	assert.InDelta(t, 33.33, adv.Percent, 0.01)
}

func TestGroupByScenario_Empty(t *testing.T) {
	assert.Empty(t, groupByScenario(&runner.Report{}))
}

func TestFilterScenario(t *testing.T) {
	groups := groupByScenario(sampleReport())

	got := filterScenario(groups, "advanced")
	require.Len(t, got, 1)
	assert.Equal(t, "advanced", got[0].Scenario)

	assert.Nil(t, filterScenario(groups, "missing"))
}

func TestRenderScenarioProgress(t *testing.T) {
	groups := groupByScenario(sampleReport())

	out := renderScenarioProgress(groups[1])
	assert.Contains(t, out, "Scenario advanced (setup failed)")
	assert.Contains(t, out, "33% (1/3)")
	assert.Contains(t, out, "1 passed")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "1 skipped")

	out = renderScenarioProgress(groups[0])
	assert.NotContains(t, out, "setup failed")
	assert.Contains(t, out, "100% (3/3)")
	assert.NotContains(t, out, "failed")
}

func TestRenderTestDetails(t *testing.T) {
	groups := groupByScenario(sampleReport())

	out := renderTestDetails(groups[1].results)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "FAIL")
	assert.Contains(t, lines[0], "setup[advanced]")
	assert.Contains(t, lines[0], "exit status 2")
	assert.NotContains(t, lines[0], "boom", "only the first error line is shown")
	assert.Contains(t, lines[1], "SKIP")
	assert.Contains(t, lines[1], "setup failed for scenario advanced")
	assert.Contains(t, lines[2], "PASS")
}

func TestStatusCmd_ReportFlag(t *testing.T) {
	resetRootCmd(t)
	path := writeSampleReport(t)

	stdout, _, code := executeCLI(t, "--no-color", "status", "--report", path)
	require.Equal(t, 0, code)
	assert.Less(t, strings.Index(stdout, "Scenario base"), strings.Index(stdout, "Scenario advanced"))
	assert.Contains(t, stdout, "Run run-42: 4 passed, 1 failed, 1 skipped")
	assert.NotContains(t, stdout, "PASS", "per-test details need --verbose")
}

func TestStatusCmd_ScenarioFilterAndVerbose(t *testing.T) {
	resetRootCmd(t)
	path := writeSampleReport(t)

	stdout, _, code := executeCLI(t, "--no-color", "status", "--report", path, "--scenario", "advanced", "--verbose")
	require.Equal(t, 0, code)
	assert.NotContains(t, stdout, "Scenario base")
	assert.Contains(t, stdout, "Scenario advanced")
	assert.Contains(t, stdout, "attr_a[advanced-1]")
}

func TestStatusCmd_UnknownScenario(t *testing.T) {
	resetRootCmd(t)
	path := writeSampleReport(t)

	_, stderr, code := executeCLI(t, "status", "--report", path, "--scenario", "ghost")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `scenario "ghost" has no results`)
}

func TestStatusCmd_JSON(t *testing.T) {
	resetRootCmd(t)
	path := writeSampleReport(t)

	stdout, _, code := executeCLI(t, "status", "--report", path, "--json")
	require.Equal(t, 0, code)

	var out statusOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "run-42", out.RunID)
	assert.Equal(t, "00000000000000ab", out.Fingerprint)
	assert.Equal(t, runner.Summary{Total: 6, Passed: 4, Failed: 1, Skipped: 1}, out.Summary)
	require.Len(t, out.Scenarios, 2)
	assert.True(t, out.Scenarios[1].SetupFailed)
}

func TestStatusCmd_MissingReport(t *testing.T) {
	resetRootCmd(t)
	path := filepath.Join(t.TempDir(), "nope.json")

	stdout, stderr, code := executeCLI(t, "status", "--report", path)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "No report found at "+path)
}

func TestStatusCmd_ReportFileFromConfig(t *testing.T) {
	resetRootCmd(t)
	cfgPath := writeConfigFile(t, validConfigTOML+"\n")
	dir := filepath.Dir(cfgPath)
	require.NoError(t, sampleReport().WriteJSON(filepath.Join(dir, "out", "report.json")))
	t.Setenv("SCENARIST_REPORT_FILE", filepath.Join("out", "report.json"))

	stdout, _, code := executeCLI(t, "--no-color", "status")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Run run-42")
}

func TestStatusCmd_NoReportFileConfigured(t *testing.T) {
	resetRootCmd(t)
	chdir(t, t.TempDir())

	_, stderr, code := executeCLI(t, "status")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no report file")
}
