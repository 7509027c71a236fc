package dag

import (
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/emirpasic/gods/utils"

	apperrors "github.com/kbukum/fileflow/errors"
)

// Order returns every vertex of g exactly once such that for each edge
// u -> v, u comes before v. Among vertices that are ready at the same time
// the one inserted into the graph first wins, so independent tasks keep
// the relative order they were given in.
//
// A cycle is reported as GRAPH_CYCLE naming the vertices left unordered.
func Order(g *Graph) ([]Vertex, error) {
	inDegree := append([]int(nil), g.inDegree...)

	ready := binaryheap.NewWith(utils.IntComparator)
	for i, d := range inDegree {
		if d == 0 {
			ready.Push(i)
		}
	}

	order := make([]Vertex, 0, len(g.vertices))
	for !ready.Empty() {
		next, _ := ready.Pop()
		i := next.(int)
		order = append(order, g.vertices[i])
		for _, j := range g.out[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				ready.Push(j)
			}
		}
	}

	if len(order) != len(g.vertices) {
		var remaining []string
		for i, d := range inDegree {
			if d > 0 {
				remaining = append(remaining, g.vertices[i].String())
			}
		}
		return nil, apperrors.GraphCycle(remaining)
	}
	return order, nil
}

// TaskOrder is Order filtered to task vertices.
func TaskOrder(g *Graph) ([]*Task, error) {
	order, err := Order(g)
	if err != nil {
		return nil, err
	}
	tasks := make([]*Task, 0, len(order))
	for _, v := range order {
		if v.IsTask() {
			tasks = append(tasks, v.Task)
		}
	}
	return tasks, nil
}
