package cmd

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/beergame-sim/beergame-sim/game"
)

// RulesConfig is the YAML shape of a rules file. Every field is optional;
// anything omitted keeps its built-in default.
type RulesConfig struct {
	HorizonWeeks     *int      `yaml:"horizon_weeks"`
	InitialInventory *int      `yaml:"initial_inventory"`
	PipelinePreFill  *int      `yaml:"pipeline_prefill"`
	HoldingRate      *float64  `yaml:"holding_rate"`
	BackorderRate    *float64  `yaml:"backorder_rate"`
	BaseDemand       []int     `yaml:"base_demand"`
	Festive          *struct {
		Count int `yaml:"count"`
		Min   int `yaml:"min"`
		Max   int `yaml:"max"`
	} `yaml:"festive"`
}

// loadRules resolves the effective rules: built-in defaults overlaid with the
// YAML file when one is given. Strict field checking, so typos fail loudly.
func loadRules(path string) (game.Rules, error) {
	rules := game.DefaultRules()
	if path == "" {
		return rules, rules.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return game.Rules{}, game.WrapErr(game.CodeBadRules, err, "read rules file %s", path)
	}

	var cfg RulesConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return game.Rules{}, game.WrapErr(game.CodeBadRules, err, "parse rules file %s", path)
	}

	if cfg.HorizonWeeks != nil {
		rules.HorizonWeeks = *cfg.HorizonWeeks
	}
	if cfg.InitialInventory != nil {
		rules.InitialInventory = *cfg.InitialInventory
	}
	if cfg.PipelinePreFill != nil {
		rules.PipelinePreFill = *cfg.PipelinePreFill
	}
	if cfg.HoldingRate != nil {
		rules.HoldingRate = *cfg.HoldingRate
	}
	if cfg.BackorderRate != nil {
		rules.BackorderRate = *cfg.BackorderRate
	}
	if len(cfg.BaseDemand) > 0 {
		rules.BaseDemand = cfg.BaseDemand
	}
	if cfg.Festive != nil {
		rules.FestiveCount = cfg.Festive.Count
		rules.FestiveMin = cfg.Festive.Min
		rules.FestiveMax = cfg.Festive.Max
	}
	return rules, rules.Validate()
}
