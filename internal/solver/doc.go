// Package solver advances a set of point particles under gravity with
// sub-stepped Verlet integration, pairwise collision separation and
// damped boundary constraints.
//
// Each call to [Solver.Update] clamps the frame time, splits it into
// equal sub-steps and, for every sub-step in order:
//
//  1. integrates positions (acceleration reset to gravity),
//  2. rebuilds the spatial hash from current positions,
//  3. separates overlapping pairs found in each 3x3 neighborhood,
//  4. clamps particles to the world bounds.
//
// Collisions are resolved before the boundary so that a pair pushed
// through a wall is always returned inside it in the same sub-step.
//
// # Collision response
//
// With [ResponseMomentum] (default) a separation moves Position only, so
// the correction reappears as velocity on the next integration. With
// [ResponseDamped] Previous moves by the same amount and separation adds no
// velocity.
package solver
