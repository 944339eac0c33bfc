// Package widget binds prepared graph data to a rendering engine instance.
//
// A [Controller] waits for the engine (see package engine), turns raw nodes
// into display nodes with [label.Prepare], mounts a [Network] on the target
// element and wires its double-click events to the node label toggle. Each
// successful [Controller.Init] returns a [Handle]; a [Registry] keeps the
// live handles so several widgets can coexist.
//
// The engine itself runs in the browser. [VisNetwork] is its server-side
// counterpart: it records what the page mounted and receives the page's
// double-click events. Other front ends, such as the terminal preview,
// provide their own [Network] through a [Factory].
package widget
