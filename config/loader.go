package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads, validates and defaults the application configuration.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validate config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Graph.WalkRadiusM == 0 {
		c.Graph.WalkRadiusM = 400
	}
	if c.Graph.WalkSpeedMS == 0 {
		c.Graph.WalkSpeedMS = 1.4
	}
	if c.Graph.CruiseSpeedKMH == nil {
		c.Graph.CruiseSpeedKMH = map[string]float64{"rail": 40, "bus": 30}
	}
	if c.Graph.EmissionFactors == nil {
		c.Graph.EmissionFactors = map[string]float64{"rail": 1, "bus": 20}
	}
	if c.Graph.NearestRadiusM == 0 {
		c.Graph.NearestRadiusM = 600
	}
	if c.Graph.NearestK == 0 {
		c.Graph.NearestK = 8
	}

	if c.Search.PopSize == 0 {
		c.Search.PopSize = 50
	}
	if c.Search.Generations == 0 {
		c.Search.Generations = 30
	}
	if c.Search.CxPb == 0 {
		c.Search.CxPb = 0.6
	}
	if c.Search.MutPb == 0 {
		c.Search.MutPb = 0.3
	}
	if c.Search.WalkPolicy == "" {
		c.Search.WalkPolicy = "maximize"
	}
	if c.Search.MaxTransfers == nil {
		unlimited := -1
		c.Search.MaxTransfers = &unlimited
	}
	if c.Search.LambdaSteps == 0 {
		c.Search.LambdaSteps = 21
	}
	if c.Search.RandomWalkSteps == 0 {
		c.Search.RandomWalkSteps = 100
	}
}
