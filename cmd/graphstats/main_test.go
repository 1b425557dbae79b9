package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-graphstats/pkg/config"
	"github.com/dd0wney/cluso-graphstats/pkg/logging"
)

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "graphstats.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
source:
  kind: stdin
analysis:
  workers: 2
output:
  format: json
`), 0o644))

	cfg, err := loadConfig([]string{
		"-config", cfgPath,
		"-input", "/data/edges.txt",
		"-metrics", "degree,paths",
		"-path-sample", "100",
		"-seed", "7",
		"-timeout", "1m",
	})
	require.NoError(t, err)

	assert.Equal(t, config.SourceFile, cfg.Source.Kind)
	assert.Equal(t, "/data/edges.txt", cfg.Source.Path)
	assert.Equal(t, []string{"degree", "paths"}, cfg.Analysis.Metrics)
	assert.Equal(t, 2, cfg.Analysis.Workers, "unset flags keep file values")
	assert.Equal(t, 100, cfg.Analysis.Paths.SampleSize)
	assert.Equal(t, uint64(7), cfg.Analysis.Paths.Seed)
	assert.Equal(t, uint64(7), cfg.Source.SampleSeed)
	assert.Equal(t, time.Minute, cfg.Analysis.Timeout)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig([]string{"-metrics", "degree,pagerank"})
	assert.Error(t, err)

	_, err = loadConfig([]string{"-format", "xml"})
	assert.Error(t, err)

	_, err = loadConfig([]string{"-no-such-flag"})
	assert.Error(t, err)
}

func TestLoadConfig_Stdin(t *testing.T) {
	cfg, err := loadConfig([]string{"-input", "-"})
	require.NoError(t, err)
	assert.Equal(t, config.SourceStdin, cfg.Source.Kind)
}

func TestRun_StdinToJSON(t *testing.T) {
	cfg, err := loadConfig([]string{"-format", "json", "-metrics", "clustering,degree"})
	require.NoError(t, err)

	var out bytes.Buffer
	err = run(context.Background(), cfg, logging.NewNopLogger(), strings.NewReader("1 2\n2 3\n3 1\n"), &out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 1.0, decoded["clustering"].(map[string]any)["coefficient"])
	assert.NotContains(t, decoded, "paths")
}

func TestRun_FileToTextWithTextfile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "edges.txt")
	require.NoError(t, os.WriteFile(input, []byte("0 1\n1 2\n2 3\n"), 0o644))
	reportPath := filepath.Join(dir, "report.txt")
	metricsPath := filepath.Join(dir, "graphstats.prom")

	cfg, err := loadConfig([]string{
		"-input", input,
		"-output", reportPath,
		"-metrics-textfile", metricsPath,
	})
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, logging.NewNopLogger(), nil, &stdout))
	assert.Empty(t, stdout.String())

	text, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Shortest paths")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "graphstats_graph_nodes 4")
}

func TestRun_MissingFile(t *testing.T) {
	cfg, err := loadConfig([]string{"-input", filepath.Join(t.TempDir(), "missing.txt")})
	require.NoError(t, err)

	err = run(context.Background(), cfg, logging.NewNopLogger(), nil, &bytes.Buffer{})
	assert.Error(t, err)
}
