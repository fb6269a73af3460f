package config

// FeedConfig describes one operator's schedule directory.
type FeedConfig struct {
	Name   string `yaml:"name" validate:"required"`
	Path   string `yaml:"path" validate:"required"`
	Prefix string `yaml:"prefix" validate:"required"`
	Mode   string `yaml:"mode" validate:"required,oneof=rail bus"`
}

// GraphConfig contains graph construction parameters.
type GraphConfig struct {
	WalkRadiusM     float64            `yaml:"walkRadiusM" validate:"gte=0"`
	WalkSpeedMS     float64            `yaml:"walkSpeedMS" validate:"gte=0"`
	CruiseSpeedKMH  map[string]float64 `yaml:"cruiseSpeedKMH"`
	EmissionFactors map[string]float64 `yaml:"emissionFactors"`
	NearestRadiusM  float64            `yaml:"nearestRadiusM" validate:"gte=0"`
	NearestK        int                `yaml:"nearestK" validate:"gte=0"`
}

// SearchConfig contains the evolutionary search parameters.
type SearchConfig struct {
	PopSize         int     `yaml:"popSize" validate:"gte=0"`
	Generations     int     `yaml:"generations" validate:"gte=0"`
	CxPb            float64 `yaml:"cxPb" validate:"gte=0,lte=1"`
	MutPb           float64 `yaml:"mutPb" validate:"gte=0,lte=1"`
	WalkPolicy      string  `yaml:"walkPolicy" validate:"omitempty,oneof=minimize maximize"`
	IncludeFare     bool    `yaml:"includeFare"`
	WalkTimeCapS    float64 `yaml:"walkTimeCapS" validate:"gte=0"`
	MaxTransfers    *int    `yaml:"maxTransfers"` // nil or negative: unlimited
	LambdaSteps     int     `yaml:"lambdaSteps" validate:"gte=0"`
	RandomWalkSteps int     `yaml:"randomWalkSteps" validate:"gte=0"`
	Workers         int     `yaml:"workers" validate:"gte=0"`
}

// CrossingConfig is one registered barrier crossing.
type CrossingConfig struct {
	ID          string  `yaml:"id" validate:"required"`
	Lat         float64 `yaml:"lat"`
	Lon         float64 `yaml:"lon"`
	SnapRadiusM float64 `yaml:"snapRadiusM" validate:"gt=0"`
}

// BarrierConfig describes a geographic barrier for walking edges.
// BBox is minLon, minLat, maxLon, maxLat.
type BarrierConfig struct {
	Name      string           `yaml:"name"`
	BBox      [4]float64       `yaml:"bbox"`
	DivideLat float64          `yaml:"divideLat"`
	Crossings []CrossingConfig `yaml:"crossings" validate:"dive"`
	Rules     map[string]bool  `yaml:"rules"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Feeds   []FeedConfig   `yaml:"feeds" validate:"required,min=1,dive"`
	Graph   GraphConfig    `yaml:"graph"`
	Search  SearchConfig   `yaml:"search"`
	Barrier *BarrierConfig `yaml:"barrier"`
}
