// Package statsview optionally serves runtime statistics over HTTP while
// a render runs. The real server is built only under the statsview build
// constraint; without it the package compiles to a no-op.
//
// After launch, graphical statistics are viewable at:
//
//	localhost:12600/debug/statsview
//
// And standard Go pprof statistics at:
//
//	localhost:12600/debug/pprof/
package statsview
