package graph

// computeComponents assigns strongly-connected-component IDs with an
// iterative Tarjan walk. Roots are visited in sorted node-ID order and
// component IDs are handed out in discovery order, so repeated runs on
// an unchanged graph always produce identical labels. Trivial components
// (a single node without a self-loop) keep NoComponent.
func (g *Graph) computeComponents() {
	index := make(map[string]int, len(g.order))
	lowlink := make(map[string]int, len(g.order))
	onStack := make(map[string]bool, len(g.order))
	var tarjanStack []string
	counter := 0
	nextComponent := 0

	type frame struct {
		id   string
		edge int // next out-edge to consider
	}

	visit := func(root string) {
		stack := []frame{{id: root}}
		index[root] = counter
		lowlink[root] = counter
		counter++
		tarjanStack = append(tarjanStack, root)
		onStack[root] = true

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			outs := g.out[f.id]
			advanced := false
			for f.edge < len(outs) {
				e := outs[f.edge]
				f.edge++
				w := e.Target
				if _, seen := index[w]; !seen {
					index[w] = counter
					lowlink[w] = counter
					counter++
					tarjanStack = append(tarjanStack, w)
					onStack[w] = true
					stack = append(stack, frame{id: w})
					advanced = true
					break
				}
				if onStack[w] && index[w] < lowlink[f.id] {
					lowlink[f.id] = index[w]
				}
			}
			if advanced {
				continue
			}

			// All out-edges handled: pop and maybe emit a component.
			v := f.id
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				if lowlink[v] < lowlink[parent.id] {
					lowlink[parent.id] = lowlink[v]
				}
			}
			if lowlink[v] == index[v] {
				var members []string
				for {
					w := tarjanStack[len(tarjanStack)-1]
					tarjanStack = tarjanStack[:len(tarjanStack)-1]
					onStack[w] = false
					members = append(members, w)
					if w == v {
						break
					}
				}
				if len(members) > 1 || g.hasSelfLoop(v) {
					for _, m := range members {
						g.nodes[m].ComponentID = nextComponent
					}
					nextComponent++
				}
			}
		}
	}

	for _, id := range g.order {
		if _, seen := index[id]; !seen {
			visit(id)
		}
	}
}

func (g *Graph) hasSelfLoop(id string) bool {
	for _, e := range g.out[id] {
		if e.Target == id {
			return true
		}
	}
	return false
}
