// Package handler is the HTTP layer, the first entry point for business
// logic after the router.
//
// It parses requests, validates input using the validation package, and
// calls the appropriate service or repository. Resource CRUD endpoints
// are produced by the generic CRUDHandler factory; everything else is a
// hand-written endpoint on the typed pipeline in base.go.
package handler
