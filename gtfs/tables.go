package gtfs

// Mode identifies the transit mode an operator's network runs on.
type Mode string

const (
	ModeRail    Mode = "rail"
	ModeBus     Mode = "bus"
	ModeVirtual Mode = "virtual"
)

// Stop is one row of stops.txt.
type Stop struct {
	ID     string
	Name   string
	Lat    float64
	Lon    float64
	ZoneID string // empty when the operator has no fare zones
}

// Trip is one row of trips.txt.
type Trip struct {
	ID      string
	RouteID string // empty when trips.txt has no route_id column
}

// StopTime is one row of stop_times.txt. Arrival and Departure keep the
// raw service-day strings; use ParseTime to turn them into seconds.
type StopTime struct {
	TripID    string
	Arrival   string
	Departure string
	StopID    string
	Seq       int
}

// Transfer is one row of transfers.txt.
type Transfer struct {
	FromStopID      string
	ToStopID        string
	Type            int
	MinTransferTime float64 // seconds, 0 when absent
}

// TransferForbidden is the GTFS transfer_type meaning the transfer is not
// possible between the two stops.
const TransferForbidden = 3

// Frequency is one row of frequencies.txt.
type Frequency struct {
	TripID      string
	StartTime   string
	EndTime     string
	HeadwaySecs float64
}

// FareAttribute is one row of fare_attributes.txt.
type FareAttribute struct {
	FareID   string
	Price    float64
	Currency string
}

// FareRule is one row of fare_rules.txt. Empty fields mean the rule does
// not constrain that dimension.
type FareRule struct {
	FareID        string
	RouteID       string
	OriginID      string
	DestinationID string
	ContainsID    string
}

// Feed bundles all schedule tables of a single operator together with the
// prefix used to namespace its stop ids in the multimodal graph.
type Feed struct {
	Prefix string
	Mode   Mode

	Stops          []Stop
	Trips          []Trip
	StopTimes      []StopTime
	Transfers      []Transfer
	Frequencies    []Frequency
	FareAttributes []FareAttribute
	FareRules      []FareRule
}

// RouteOfTrip returns the route id of a trip, or "" when unknown.
func (f *Feed) RouteOfTrip(tripID string) string {
	for i := range f.Trips {
		if f.Trips[i].ID == tripID {
			return f.Trips[i].RouteID
		}
	}
	return ""
}
