package gtfs

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// table is one parsed CSV file: a header index plus its data rows.
type table struct {
	path string
	cols map[string]int
	rows [][]string
}

func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := t.cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing required columns %v", t.path, missing)
	}
	return nil
}

func readTable(dir, name string) (*table, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rec, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rec) == 0 {
		return &table{path: path, cols: map[string]int{}}, nil
	}
	cols := make(map[string]int, len(rec[0]))
	for i, h := range rec[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))] = i
	}
	return &table{path: path, cols: cols, rows: rec[1:]}, nil
}

// readOptional returns nil (no error) when the file does not exist.
func readOptional(dir, name string) (*table, error) {
	if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
		return nil, nil
	}
	return readTable(dir, name)
}

// LoadFeed reads one operator's GTFS directory into typed tables.
// stops.txt, trips.txt and stop_times.txt are required; transfers,
// frequencies and the fare tables are optional. Errors identify the
// offending file and field so bad input data fails fast.
func LoadFeed(dir, prefix string, mode Mode) (*Feed, error) {
	feed := &Feed{Prefix: prefix, Mode: mode}

	stops, err := readTable(dir, "stops.txt")
	if err != nil {
		return nil, err
	}
	if err := stops.require("stop_id", "stop_lat", "stop_lon"); err != nil {
		return nil, err
	}
	for _, row := range stops.rows {
		lat, err := strconv.ParseFloat(stops.get(row, "stop_lat"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: stop %q: bad stop_lat: %w", stops.path, stops.get(row, "stop_id"), err)
		}
		lon, err := strconv.ParseFloat(stops.get(row, "stop_lon"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: stop %q: bad stop_lon: %w", stops.path, stops.get(row, "stop_id"), err)
		}
		feed.Stops = append(feed.Stops, Stop{
			ID:     stops.get(row, "stop_id"),
			Name:   stops.get(row, "stop_name"),
			Lat:    lat,
			Lon:    lon,
			ZoneID: stops.get(row, "zone_id"),
		})
	}

	trips, err := readTable(dir, "trips.txt")
	if err != nil {
		return nil, err
	}
	if err := trips.require("trip_id"); err != nil {
		return nil, err
	}
	for _, row := range trips.rows {
		feed.Trips = append(feed.Trips, Trip{
			ID:      trips.get(row, "trip_id"),
			RouteID: trips.get(row, "route_id"),
		})
	}

	st, err := readTable(dir, "stop_times.txt")
	if err != nil {
		return nil, err
	}
	if err := st.require("trip_id", "arrival_time", "departure_time", "stop_id", "stop_sequence"); err != nil {
		return nil, err
	}
	for _, row := range st.rows {
		seq, err := strconv.Atoi(st.get(row, "stop_sequence"))
		if err != nil {
			return nil, fmt.Errorf("%s: trip %q: bad stop_sequence: %w", st.path, st.get(row, "trip_id"), err)
		}
		feed.StopTimes = append(feed.StopTimes, StopTime{
			TripID:    st.get(row, "trip_id"),
			Arrival:   st.get(row, "arrival_time"),
			Departure: st.get(row, "departure_time"),
			StopID:    st.get(row, "stop_id"),
			Seq:       seq,
		})
	}
	// Stable order for downstream consumers that walk consecutive rows.
	sort.SliceStable(feed.StopTimes, func(i, j int) bool {
		a, b := feed.StopTimes[i], feed.StopTimes[j]
		if a.TripID != b.TripID {
			return a.TripID < b.TripID
		}
		return a.Seq < b.Seq
	})

	if tr, err := readOptional(dir, "transfers.txt"); err != nil {
		return nil, err
	} else if tr != nil {
		for _, row := range tr.rows {
			t := Transfer{
				FromStopID: tr.get(row, "from_stop_id"),
				ToStopID:   tr.get(row, "to_stop_id"),
			}
			if v := tr.get(row, "transfer_type"); v != "" {
				if t.Type, err = strconv.Atoi(v); err != nil {
					return nil, fmt.Errorf("%s: bad transfer_type %q", tr.path, v)
				}
			}
			if v := tr.get(row, "min_transfer_time"); v != "" {
				if t.MinTransferTime, err = strconv.ParseFloat(v, 64); err != nil {
					return nil, fmt.Errorf("%s: bad min_transfer_time %q", tr.path, v)
				}
			}
			feed.Transfers = append(feed.Transfers, t)
		}
	}

	if fr, err := readOptional(dir, "frequencies.txt"); err != nil {
		return nil, err
	} else if fr != nil {
		for _, row := range fr.rows {
			headway, err := strconv.ParseFloat(fr.get(row, "headway_secs"), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: trip %q: bad headway_secs: %w", fr.path, fr.get(row, "trip_id"), err)
			}
			feed.Frequencies = append(feed.Frequencies, Frequency{
				TripID:      fr.get(row, "trip_id"),
				StartTime:   fr.get(row, "start_time"),
				EndTime:     fr.get(row, "end_time"),
				HeadwaySecs: headway,
			})
		}
	}

	if fa, err := readOptional(dir, "fare_attributes.txt"); err != nil {
		return nil, err
	} else if fa != nil {
		for _, row := range fa.rows {
			price, err := strconv.ParseFloat(fa.get(row, "price"), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: fare %q: non-numeric price: %w", fa.path, fa.get(row, "fare_id"), err)
			}
			feed.FareAttributes = append(feed.FareAttributes, FareAttribute{
				FareID:   fa.get(row, "fare_id"),
				Price:    price,
				Currency: fa.get(row, "currency_type"),
			})
		}
	}

	if fr, err := readOptional(dir, "fare_rules.txt"); err != nil {
		return nil, err
	} else if fr != nil {
		for _, row := range fr.rows {
			feed.FareRules = append(feed.FareRules, FareRule{
				FareID:        fr.get(row, "fare_id"),
				RouteID:       fr.get(row, "route_id"),
				OriginID:      fr.get(row, "origin_id"),
				DestinationID: fr.get(row, "destination_id"),
				ContainsID:    fr.get(row, "contains_id"),
			})
		}
	}

	return feed, nil
}
