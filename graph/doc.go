/*
Package graph builds and queries the routable multimodal graph.

Nodes are (operator, stop) pairs plus on-demand virtual points; directed
edges carry a fixed tagged payload (transit, transfer or walk). The builder
derives per-route headways and concatenates the operators' fare tables for
the evaluator, buckets stops into a uniform grid to find walk connections,
and applies a configurable barrier-crossing rule to every walking edge.

The graph is built once and is read-mostly afterwards: path queries take
read tokens on an RBMutex, virtual-point injection takes the write lock.
*/
package graph
