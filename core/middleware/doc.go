// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: HTTP Basic authentication against the configured credential pair.
//     Only mutating methods are challenged; reads stay public.
//   - rayid: generates a request id (RayID) for every incoming request and
//     exposes it in the X-Ray-ID response header and in fiber locals.
//
// Both are registered globally in the start command, rayid first.
package middleware
