// Package inject provides the injection scope used to wire an application
// and its collaborators into the request-handling path.
//
// The scope is a static composition root: a concurrency-safe registry of
// bindings from string keys to live instances, assembled from an ordered
// list of modules. There is no reflective construction — everything bound
// into a scope is created by the caller.
package inject
