// Package patrol holds the patrol-route sequence builder.
//
// A route is an ordered selection of a site's checkpoints ("pointers"). The
// editor keeps that selection in a Store, derives the pool of unused
// checkpoints from it, and turns drag gestures (a DragDescriptor and a
// DropDescriptor) into a new sequence through Resolve. Nothing in here does
// I/O; SiteReader and RouteWriter are implemented by the service and api
// packages.
package patrol
