// Package dag schedules file-producing tasks.
//
// Each Task declares the files it requires and the files it provides. Build
// turns a list of tasks into a bipartite graph of file and task vertices,
// Order linearizes it with Kahn's algorithm, and Engine.Run walks the order
// deciding per task whether its outputs are already newer than its inputs.
//
// A composite task wraps child tasks. Its requirements and provisions are the
// source and sink files of the graph built from its children, so a whole
// pipeline can be nested inside another one as a single vertex.
//
//	t1 := dag.NewTask("clean", []string{"in.csv"}, []string{"clean.csv"}, clean)
//	t2 := dag.NewTask("report", []string{"clean.csv"}, []string{"report.html"}, report)
//
//	engine := dag.NewEngine(prober, dag.WithLogger(log))
//	result, err := engine.Run(ctx, []*dag.Task{t2, t1}, false)
package dag
