// Package spatial provides a uniform-cell spatial hash for broad-phase
// neighbor queries.
//
// Positions are bucketed into square cells of a fixed size. A query visits
// the 3x3 block of cells around a position and returns the slot indices
// stored there. With a cell size of at least the interaction diameter, every
// pair closer than that diameter is guaranteed to be found.
//
//	h, _ := spatial.New(2 * radius)
//	h.Clear()
//	for i, p := range particles {
//	    h.Insert(i, p.Position)
//	}
//	candidates = h.Query(particles[0].Position, candidates[:0])
package spatial
