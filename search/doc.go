/*
Package search evolves populations of graph paths toward the Pareto front
of travel time, emissions, walking and (optionally) fare.

Individuals are variable-length node sequences; fitness is the objective
vector extracted from the metrics evaluator. Selection is non-dominated
sorting with crowding distance (NSGA-II), implemented here directly, with
graph-aware crossover and mutation operators. The package also provides
the λ-scalarized shortest-path baseline sweep used both for comparison
and as seed material.
*/
package search
