// Package transform provides graph-to-graph reductions that bound the cost
// of downstream path analysis.
//
// [TransitiveReduction] removes edges already implied by longer paths;
// [LimitDepth] cuts the graph at a forward-distance bound from the root.
// Both return new immutable graphs that satisfy every query contract of the
// depgraph package; the input graph is never mutated.
package transform
