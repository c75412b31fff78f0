// Package api is the HTTP client for the catalog document and the save
// endpoint.
//
// # Endpoints
//
//   - GET  catalog_path returns {"games": [...]} or a bare array of records.
//     Records are run through game.Transform, so loose input is tolerated.
//   - POST save_path with {"games": [...]} returns {"ok": true, "saved": n}.
//   - HEAD catalog_path is the connectivity probe.
//
// # Errors
//
// Transport failures match ErrUnavailable. A save the server answers with an
// error status, or without ok, is a *SaveError carrying the status and the
// server's message. Gateway statuses (502, 503, 504) count as connectivity
// problems so the caller can queue the save for later.
package api
