package ch

import (
	"github.com/shterrett/efficient-route-planning/pkg/graph"
	"github.com/shterrett/efficient-route-planning/pkg/pathfinder"
)

// maxUnpackDepth bounds shortcut-unpacking recursion as a safety net against
// a malformed Via chain; a correctly built CH never needs anywhere near it.
const maxUnpackDepth = 100

// ShortestPathUpward is a one-sided search from source restricted to
// upward (ArcFlag == true, i.e. order(to) > order(from)) edges, same as
// Dijkstra but over the post-Contract graph. Correct only when the caller
// has already run a matching downward sweep from the target and
// intersected the two settlements themselves; Query below does that
// bidirectional meeting for callers that just want an answer.
func ShortestPathUpward[K comparable](g *graph.Graph[K], source K, target *K) (int64, map[K]pathfinder.CurrentBest[K]) {
	pf := pathfinder.New[K](nil, pathfinder.LiveEdges[K], nil)
	return pf.ShortestPath(g, source, target)
}

// Query answers a point-to-point request with a bidirectional search: an
// upward sweep from source, an upward sweep from target (valid because
// the graph is symmetric, so "backward from target along upward edges"
// and "forward from target along upward edges" are the same search),
// meeting at the node minimising the sum of both settlement costs. The
// returned path is unpacked back into original (pre-contraction) node ids.
func Query[K comparable](g *graph.Graph[K], source, target K) (int64, []K, bool) {
	_, fwd := ShortestPathUpward(g, source, nil)
	_, bwd := ShortestPathUpward(g, target, nil)

	best := int64(-1)
	var meet K
	found := false
	for id, f := range fwd {
		b, ok := bwd[id]
		if !ok {
			continue
		}
		total := f.Cost + b.Cost
		if !found || total < best {
			best = total
			meet = id
			found = true
		}
	}
	if !found {
		return 0, nil, false
	}

	overlay := reconstructOverlay(fwd, bwd, meet)
	path := unpackOverlay(g, overlay)
	return best, path, true
}

// reconstructOverlay walks fwd's predecessor chain from meet back to
// source (reversing it) then bwd's predecessor chain from meet toward
// target (already in forward order, since bwd is itself a forward search
// rooted at target over a symmetric graph).
func reconstructOverlay[K comparable](fwd, bwd map[K]pathfinder.CurrentBest[K], meet K) []K {
	var fromSource []K
	cur := meet
	for {
		fromSource = append(fromSource, cur)
		best := fwd[cur]
		if best.Predecessor == nil {
			break
		}
		cur = *best.Predecessor
	}
	for i, j := 0, len(fromSource)-1; i < j; i, j = i+1, j-1 {
		fromSource[i], fromSource[j] = fromSource[j], fromSource[i]
	}

	toTarget := []K{}
	cur = meet
	for {
		best := bwd[cur]
		if best.Predecessor == nil {
			break
		}
		cur = *best.Predecessor
		toTarget = append(toTarget, cur)
	}

	return append(fromSource, toTarget...)
}

// unpackOverlay expands an overlay (shortcut-inclusive) node path into the
// original-edge node sequence, recursively unpacking every shortcut edge
// via its Via node.
func unpackOverlay[K comparable](g *graph.Graph[K], overlay []K) []K {
	if len(overlay) == 0 {
		return nil
	}
	out := []K{overlay[0]}
	for i := 0; i < len(overlay)-1; i++ {
		out = append(out, unpackEdge(g, overlay[i], overlay[i+1], 0)...)
	}
	return out
}

// unpackEdge returns the original node sequence between from and to
// (exclusive of from, inclusive of to), recursing through Via nodes.
func unpackEdge[K comparable](g *graph.Graph[K], from, to K, depth int) []K {
	e := g.GetMutEdge(from, to)
	if e == nil || depth > maxUnpackDepth {
		return []K{to}
	}
	if e.Via == nil {
		return []K{to}
	}
	via := *e.Via
	return append(unpackEdge(g, from, via, depth+1), unpackEdge(g, via, to, depth+1)...)
}
