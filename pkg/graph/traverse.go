// Package graph provides the small traversal kernels the netlist analyses
// are built on: reachability over a successor function and a depth-first
// topological sort with cycle extraction.
package graph

// Reach returns the set of nodes reachable from roots, roots included,
// following next edges. Each node is expanded at most once, so traversal
// terminates on cyclic graphs.
func Reach[N comparable](roots []N, next func(N) []N) map[N]struct{} {
	seen := make(map[N]struct{}, len(roots))
	queue := make([]N, 0, len(roots))
	for _, r := range roots {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, m := range next(n) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			queue = append(queue, m)
		}
	}
	return seen
}

const (
	white uint8 = iota // unvisited
	gray               // on the current DFS path
	black              // done
)

// TopoSort orders nodes so that every node appears after all of its next
// successors (dependencies first). If the edge relation contains a cycle,
// the second result holds the nodes on one such cycle, in path order, and
// the first result is nil.
func TopoSort[N comparable](nodes []N, next func(N) []N) ([]N, []N) {
	color := make(map[N]uint8, len(nodes))
	order := make([]N, 0, len(nodes))
	var path []N

	var visit func(n N) []N
	visit = func(n N) []N {
		color[n] = gray
		path = append(path, n)
		for _, m := range next(n) {
			switch color[m] {
			case gray:
				// Cut the current path down to the loop back to m.
				for i, p := range path {
					if p == m {
						cycle := make([]N, len(path)-i)
						copy(cycle, path[i:])
						return cycle
					}
				}
			case white:
				if cycle := visit(m); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		order = append(order, n)
		return nil
	}

	for _, n := range nodes {
		if color[n] != white {
			continue
		}
		if cycle := visit(n); cycle != nil {
			return nil, cycle
		}
	}
	return order, nil
}
