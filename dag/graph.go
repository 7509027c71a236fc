package dag

import (
	apperrors "github.com/kbukum/fileflow/errors"
)

// Vertex is either a file identifier or a task.
type Vertex struct {
	File string
	Task *Task
}

// FileVertex returns the vertex for file f.
func FileVertex(f string) Vertex { return Vertex{File: f} }

// TaskVertex returns the vertex for task t.
func TaskVertex(t *Task) Vertex { return Vertex{Task: t} }

// IsTask reports whether v is a task vertex.
func (v Vertex) IsTask() bool { return v.Task != nil }

func (v Vertex) String() string {
	if v.Task != nil {
		return v.Task.String()
	}
	return v.File
}

// Edge is a directed edge. Edges always join a file and a task.
type Edge struct {
	From Vertex
	To   Vertex
}

// Graph is the bipartite dependency graph over files and tasks. It is
// immutable once built.
type Graph struct {
	vertices  []Vertex
	index     map[Vertex]int
	out       [][]int
	inDegree  []int
	producers map[string]*Task
}

// Build assembles the graph for tasks. Vertices are numbered in the order
// they are first referenced: each task's requires, then the task, then its
// provides. Composite tasks are inspected here. Two tasks providing the
// same file is a DUPLICATE_PRODUCER error.
func Build(tasks []*Task) (*Graph, error) {
	g := &Graph{
		index:     make(map[Vertex]int),
		producers: make(map[string]*Task),
	}

	seen := make(map[*Task]bool, len(tasks))
	for _, t := range tasks {
		if seen[t] {
			continue
		}
		seen[t] = true

		if err := t.Inspect(); err != nil {
			return nil, err
		}

		for _, f := range t.Requires() {
			g.addEdge(FileVertex(f), TaskVertex(t))
		}
		g.vertex(TaskVertex(t))
		for _, f := range t.Provides() {
			if prev, ok := g.producers[f]; ok && prev != t {
				return nil, apperrors.DuplicateProducer(f, prev.Name(), t.Name())
			}
			g.producers[f] = t
			g.addEdge(TaskVertex(t), FileVertex(f))
		}
	}
	return g, nil
}

func (g *Graph) vertex(v Vertex) int {
	if i, ok := g.index[v]; ok {
		return i
	}
	i := len(g.vertices)
	g.vertices = append(g.vertices, v)
	g.out = append(g.out, nil)
	g.inDegree = append(g.inDegree, 0)
	g.index[v] = i
	return i
}

func (g *Graph) addEdge(from, to Vertex) {
	fi, ti := g.vertex(from), g.vertex(to)
	for _, existing := range g.out[fi] {
		if existing == ti {
			return
		}
	}
	g.out[fi] = append(g.out[fi], ti)
	g.inDegree[ti]++
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// Vertices returns every vertex in insertion order.
func (g *Graph) Vertices() []Vertex {
	return append([]Vertex(nil), g.vertices...)
}

// Tasks returns the task vertices in insertion order.
func (g *Graph) Tasks() []*Task {
	var tasks []*Task
	for _, v := range g.vertices {
		if v.IsTask() {
			tasks = append(tasks, v.Task)
		}
	}
	return tasks
}

// Edges returns every edge, grouped by source vertex in insertion order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for i, outs := range g.out {
		for _, j := range outs {
			edges = append(edges, Edge{From: g.vertices[i], To: g.vertices[j]})
		}
	}
	return edges
}

// Successors returns the vertices v points to.
func (g *Graph) Successors(v Vertex) []Vertex {
	i, ok := g.index[v]
	if !ok {
		return nil
	}
	var succ []Vertex
	for _, j := range g.out[i] {
		succ = append(succ, g.vertices[j])
	}
	return succ
}

// Producer returns the task that provides file f, if any.
func (g *Graph) Producer(f string) (*Task, bool) {
	t, ok := g.producers[f]
	return t, ok
}

// Sources returns the vertices nothing in the graph points to: files that
// must be supplied from outside. Tasks that declare no inputs are
// legitimate generators and are left out; any other task returned here
// means the graph is inconsistent.
func (g *Graph) Sources() []Vertex {
	var sources []Vertex
	for i, v := range g.vertices {
		if g.inDegree[i] != 0 {
			continue
		}
		if v.IsTask() && len(v.Task.Requires()) == 0 {
			continue
		}
		sources = append(sources, v)
	}
	return sources
}

// Sinks returns the file vertices nothing in the graph consumes.
func (g *Graph) Sinks() []Vertex {
	var sinks []Vertex
	for i, v := range g.vertices {
		if !v.IsTask() && len(g.out[i]) == 0 {
			sinks = append(sinks, v)
		}
	}
	return sinks
}

// SourceFiles returns the names of the file sources. A task among the
// sources is a GRAPH_CONSISTENCY error.
func (g *Graph) SourceFiles() ([]string, error) {
	var files []string
	for _, v := range g.Sources() {
		if v.IsTask() {
			return nil, apperrors.GraphConsistency("source vertex " + v.String() + " is a task, not a file")
		}
		files = append(files, v.File)
	}
	return files, nil
}
