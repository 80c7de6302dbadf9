package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beergame-sim/beergame-sim/game"
)

func writeRulesFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRules_EmptyPathUsesDefaults(t *testing.T) {
	rules, err := loadRules("")
	require.NoError(t, err)
	assert.Equal(t, game.DefaultRules(), rules)
}

func TestLoadRules_FileOverlaysDefaults(t *testing.T) {
	path := writeRulesFile(t, `
horizon_weeks: 10
holding_rate: 1.25
festive:
  count: 1
  min: 3
  max: 8
`)

	rules, err := loadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 10, rules.HorizonWeeks)
	assert.InDelta(t, 1.25, rules.HoldingRate, 1e-9)
	assert.Equal(t, 1, rules.FestiveCount)
	assert.Equal(t, 3, rules.FestiveMin)
	assert.Equal(t, 8, rules.FestiveMax)

	// untouched fields keep their defaults
	defaults := game.DefaultRules()
	assert.Equal(t, defaults.InitialInventory, rules.InitialInventory)
	assert.Equal(t, defaults.BaseDemand, rules.BaseDemand)
	assert.InDelta(t, defaults.BackorderRate, rules.BackorderRate, 1e-9)
}

func TestLoadRules_ZeroValuesOverride(t *testing.T) {
	path := writeRulesFile(t, `
pipeline_prefill: 0
festive:
  count: 0
`)

	rules, err := loadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 0, rules.PipelinePreFill, "an explicit zero is not the same as omitted")
	assert.Equal(t, 0, rules.FestiveCount)
}

func TestLoadRules_UnknownFieldFails(t *testing.T) {
	path := writeRulesFile(t, `
horizon_weks: 10
`)

	_, err := loadRules(path)
	assert.True(t, game.IsCode(err, game.CodeBadRules), "typos must fail loudly, got %v", err)
}

func TestLoadRules_InvalidValuesFailValidation(t *testing.T) {
	path := writeRulesFile(t, `
horizon_weeks: 0
`)

	_, err := loadRules(path)
	assert.True(t, game.IsCode(err, game.CodeBadRules))
}

func TestLoadRules_MissingFileFails(t *testing.T) {
	_, err := loadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, game.IsCode(err, game.CodeBadRules))
}
