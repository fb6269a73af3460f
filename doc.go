// Package paretoplanner plans multimodal trips (rail, bus, walking) and
// returns Pareto-optimal alternatives instead of a single best route.
//
// The planner loads one schedule feed per operator, fuses them into a
// directed multimodal graph with walking interconnections, and searches
// the graph with an NSGA-II evolutionary engine over total time, CO2
// emissions, walked distance and optionally fare. A λ-scalarized
// shortest-path sweep provides both the seed population and a classical
// baseline to compare the evolved front against.
package paretoplanner
