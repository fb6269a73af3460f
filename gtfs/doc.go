/*
Package gtfs provides typed access to static GTFS schedule tables.

This package is the schedule-provider boundary of the planner: it reads the
per-operator CSV files (stops, trips, stop_times, plus the optional
transfers, frequencies and fare tables) into plain typed slices and leaves
all graph semantics to the graph package.

# Basic Usage

Load one operator's feed from a GTFS directory:

	feed, err := gtfs.LoadFeed("data/metro", "METRO", gtfs.ModeRail)
	if err != nil {
	    log.Fatal(err)
	}

Missing required files or columns fail fast with an error naming the
offending file; optional tables simply come back empty.

Service-day times ("25:10:00" is ten past one on the next calendar day)
are kept as strings in the tables and parsed on demand with ParseTime.
*/
package gtfs
