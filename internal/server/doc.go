// Package server implements the local preview server: it serves the
// generated manifest, the image and thumbnail trees, and the health,
// version, stats, and metrics endpoints used to observe a watch session.
//
// This is preview tooling, not a hosting solution. The server binds a
// configurable port with no authentication and is meant to sit next to
// a static gallery page during development. Everything is served with
// no-cache headers so rebuilds show up on reload.
package server
