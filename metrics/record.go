package metrics

// Penalty is the sentinel cost marking an unreachable or rule-violating
// path. Dominance logic naturally pushes penalized records off the front.
const Penalty = 1e9

// Segment is one scored step of a path. Wait segments synthesized by the
// headway model have From == To and mode "wait".
type Segment struct {
	From     string  `json:"from_stop"`
	To       string  `json:"to_stop"`
	Mode     string  `json:"mode"`
	RouteID  string  `json:"route_id,omitempty"`
	TimeS    float64 `json:"time_s"`
	DistM    float64 `json:"distance_m"`
	Transit  bool    `json:"transit"`
}

// FareSelection names the fare product the evaluator picked for a path.
type FareSelection struct {
	FareID   string  `json:"fare_id,omitempty"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Source   string  `json:"source"` // "gtfs" or "fallback"
}

// Record is the full metrics breakdown of one evaluated path.
type Record struct {
	TimeTotalS       float64            `json:"time_total_s"`
	TravelTimeS      float64            `json:"travel_time_s"`
	WaitingTimeS     float64            `json:"waiting_time_s"`
	EmissionsG       float64            `json:"emissions_g"`
	WalkM            float64            `json:"walk_m"`
	FareCost         float64            `json:"fare_cost"`
	FareSelected     *FareSelection     `json:"fare_selected,omitempty"`
	Transfers        int                `json:"n_transfers"`
	ZonesPassed      []string           `json:"zones_passed"`
	Segments         []Segment          `json:"segments"`
	WaitsByRoute     map[string]float64 `json:"waits,omitempty"`
	DistanceKmByMode map[string]float64 `json:"distance_km_by_mode,omitempty"`
	Path             []string           `json:"path_simplified"`
}

// Infeasible returns the sentinel record for paths that cannot be scored.
func Infeasible() Record {
	return Record{
		TimeTotalS:   Penalty,
		TravelTimeS:  Penalty,
		WaitingTimeS: Penalty,
		EmissionsG:   Penalty,
		WalkM:        Penalty,
		FareCost:     Penalty,
		Transfers:    int(Penalty),
		ZonesPassed:  []string{},
		Segments:     []Segment{},
	}
}

// IsInfeasible reports whether r is the sentinel record.
func (r *Record) IsInfeasible() bool { return r.TimeTotalS >= Penalty }

// WalkTimeS returns the walking time of the path in seconds.
func (r *Record) WalkTimeS() float64 {
	total := 0.0
	for _, s := range r.Segments {
		if s.Mode == "walk" {
			total += s.TimeS
		}
	}
	return total
}

// HasTransit reports whether any scored segment rides a vehicle.
func (r *Record) HasTransit() bool {
	for _, s := range r.Segments {
		if s.Transit {
			return true
		}
	}
	return false
}
