package graph

// computeBetweenness fills in every node's Betweenness score using
// Brandes' accumulation over shortest hop-count paths between all
// ordered node pairs. Self-loops never lie on a shortest path and are
// skipped. Scores are normalized to [0,1]: by (n-1)(n-2) in NormPairs
// mode, by the largest observed raw score in NormMax mode.
func (g *Graph) computeBetweenness(mode NormMode) {
	n := len(g.order)
	raw := make(map[string]float64, n)
	for _, id := range g.order {
		raw[id] = 0
	}
	if n < 3 {
		for _, id := range g.order {
			g.nodes[id].Betweenness = 0
		}
		return
	}

	// One BFS per source, dependency accumulation in reverse BFS order.
	for _, source := range g.order {
		sigma := make(map[string]float64, n) // shortest path counts
		dist := make(map[string]int, n)
		preds := make(map[string][]string, n)
		var stack []string

		sigma[source] = 1
		dist[source] = 0
		queue := []string{source}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, e := range g.out[v] {
				w := e.Target
				if w == v {
					continue
				}
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				raw[w] += delta[w]
			}
		}
	}

	var norm float64
	switch mode {
	case NormMax:
		for _, v := range raw {
			if v > norm {
				norm = v
			}
		}
	default:
		norm = float64(n-1) * float64(n-2)
	}
	for _, id := range g.order {
		if norm > 0 {
			g.nodes[id].Betweenness = raw[id] / norm
		} else {
			g.nodes[id].Betweenness = 0
		}
	}
}
