// Package compositor converts a graph of compositing nodes into a graph of
// per-pixel operations and evaluates it.
//
// # Overview
//
// A job starts from an editor graph ([Tree]) of named nodes joined by links
// between named sockets. [Convert] validates the graph, instantiates one
// [Node] per vertex and asks each node, in dependency order, to lower itself
// into [Operation] values registered with an [ExecutionSystem]. Lowering
// moves ("relinks") the node's socket connections onto the operations it
// created, so after conversion the operations form their own graph and the
// nodes can be discarded.
//
// [ExecutionSystem.Execute] then initialises every operation, evaluates the
// output operations tile by tile on a worker pool and returns the resulting
// [MemoryBuffer] values keyed by output node name.
//
// # Quick Start
//
//	tree := &compositor.Tree{}
//	tree.AddNode("rgb", "red").Properties = compositor.Properties{"color": []any{1.0, 0.0, 0.0, 1.0}}
//	tree.AddNode("composite", "out")
//	tree.Link("red", "RGBA", "out", "Image")
//
//	ctx, _ := compositor.NewContext(320, 240)
//	sys, err := compositor.Convert(tree, ctx)
//	if err != nil {
//	    return err
//	}
//	res, err := sys.Execute(context.Background())
//
// # Execution model
//
// Operations are immutable configuration. [Operation.InitExecution] returns
// an [Executor] holding the per-job state; only an Executor can evaluate
// pixels, and it fails fast once [Executor.DeinitExecution] has run.
// Executors may be called concurrently for different pixels.
//
// # GPU acceleration
//
// A [Context] built with [WithGPU] lets nodes pick accelerated operation
// variants. Accelerated variants fall back to the CPU path when the
// accelerator reports [ErrFallbackToCPU] or fails, so results never depend
// on GPU availability.
package compositor
