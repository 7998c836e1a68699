package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
	"github.com/YuminosukeSato/ufcpredictor/pkg/log"
	"github.com/YuminosukeSato/ufcpredictor/report"
)

// writeFixture lays out ten fights, an odds CSV keyed by fight_id and a run
// configuration pointing at both. It returns the config path.
func writeFixture(t *testing.T, extra string) (dir, cfgPath string) {
	t.Helper()
	return writeFixtureIDs(t, "f%02d", extra)
}

// writeFixtureIDs is writeFixture with fight ids rendered by idFormat.
func writeFixtureIDs(t *testing.T, idFormat, extra string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()

	var fights strings.Builder
	fights.WriteString("fight_id,fight_url,event_id,event_date,red_id,red_name,blue_id,blue_name,referee,red_result,blue_result\n")
	var odds strings.Builder
	odds.WriteString("fight_id,odds_diff\n")
	results := [][2]string{{"W", "L"}, {"L", "W"}, {"W", "L"}, {"D", "D"}, {"W", "L"},
		{"L", "W"}, {"W", "L"}, {"NC", "NC"}, {"W", "L"}, {"L", "W"}}
	for i, r := range results {
		id := fmt.Sprintf(idFormat, i)
		fmt.Fprintf(&fights, "%s,http://x/%s,e%d,2024-01-%02d,r%d,Red %d,b%d,Blue %d,Ref,%s,%s\n",
			id, id, i/3, i+1, i, i, i, i, r[0], r[1])
		fmt.Fprintf(&odds, "%s,%d\n", id, 50-i*10)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fights.csv"), []byte(fights.String()), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odds.csv"), []byte(odds.String()), 0o600))

	cfg := fmt.Sprintf(`log_level: debug
log_format: console
fights_path: %[1]s/fights.csv
sources:
  - id: odds
    kind: csv
    path: %[1]s/odds.csv
    join_keys: [fight_id]
builders:
  - id: favourite
    kind: sign
    inputs: [odds_diff]
    output: favourite
    requires_sources: [odds]
  - id: odds_z
    kind: zscore
    inputs: [odds_diff]
    requires_features: [favourite]
split:
  kind: ordered
  test_fraction: 0.3
model:
  kind: dummy
output:
  summary_path: %[1]s/out/summary.yaml
  plot_path: %[1]s/out/outcomes.png
  metrics_path: %[1]s/out/ufcpredict.prom
%[2]s`, dir, extra)
	cfgPath = filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return dir, cfgPath
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Cleanup(func() { log.SetLogger(nil) })
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTrainCommand(t *testing.T) {
	dir, cfgPath := writeFixture(t, "")

	stdout, stderr, err := runCLI(t, "train", "--config", cfgPath)
	require.NoError(t, err, stderr)

	var summary report.Summary
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, 7, summary.TrainSamples)
	assert.Equal(t, 3, summary.TestSamples)
	assert.Contains(t, summary.Features, "favourite")
	assert.Contains(t, summary.Features, "odds_diff_z")
	assert.Contains(t, stderr, "data source merged")

	for _, name := range []string{"summary.yaml", "outcomes.png", "ufcpredict.prom"} {
		info, statErr := os.Stat(filepath.Join(dir, "out", name))
		require.NoError(t, statErr, name)
		assert.Positive(t, info.Size(), name)
	}
	prom, err := os.ReadFile(filepath.Join(dir, "out", "ufcpredict.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `ufcpredictor_pipeline_runs_total{status="success"} 1`)
}

func TestTrainCommandNumericFightIDs(t *testing.T) {
	_, cfgPath := writeFixtureIDs(t, "1%02d", "join: strict\n")

	stdout, stderr, err := runCLI(t, "train", "--config", cfgPath)
	require.NoError(t, err, stderr)

	var summary report.Summary
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, 7, summary.TrainSamples)
	assert.Contains(t, summary.Features, "odds_diff")
}

func TestTrainCommandLogisticModel(t *testing.T) {
	_, cfgPath := writeFixture(t, "")
	t.Setenv("UFCPREDICT_MODEL__KIND", "logistic")
	t.Setenv("UFCPREDICT_MODEL__MAX_ITER", "500")

	stdout, stderr, err := runCLI(t, "train", "--config", cfgPath, "--log-level", "warn")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "LogisticRegression")
}

func TestTrainCommandDependencyError(t *testing.T) {
	_, cfgPath := writeFixture(t, "")
	body, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	broken := strings.Replace(string(body), "requires_sources: [odds]", "requires_sources: [weather]", 1)
	require.NoError(t, os.WriteFile(cfgPath, []byte(broken), 0o600))

	_, _, err = runCLI(t, "train", "--config", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.IsDependency(err))
}

func TestValidateCommand(t *testing.T) {
	_, cfgPath := writeFixture(t, "")

	stdout, _, err := runCLI(t, "validate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "configuration OK: 1 sources, 2 builders, ordered split, dummy model")
}

func TestValidateCommandRejectsBadConfig(t *testing.T) {
	_, cfgPath := writeFixture(t, "join: outer\n")

	_, _, err := runCLI(t, "validate", "--config", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}
