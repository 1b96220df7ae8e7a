// Package service exposes beam analysis as a JSON-RPC 2.0 service over
// stdin/stdout, so a beamline orchestrator can keep one process alive and
// feed it measurement files as they are translated instead of forking the
// CLI per frame.
//
// One request per line on stdin, one response per line on stdout; logs go
// to stderr. Methods:
//
//   - initialize: protocol handshake, returns service name and version
//   - ping: liveness check
//   - beam/analyze: run the pipeline on a measurement file, optionally
//     writing results back into it
//   - beam/info: reduced-frame shape and intensity statistics
//
// Errors follow JSON-RPC conventions: -32601 unknown method, -32602
// invalid params, -32000 for analysis failures with the failure kind
// (no_region_found, invalid_exposure_time, shape_error) in the error data.
package service
