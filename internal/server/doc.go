// Package server exposes the poster pipeline over HTTP.
//
// Routes:
//
//	POST /generate_image  {"variables": {"artist", "match", "location", "date", "time"}}
//	POST /overlay         {"image_path", "artist", "match", "date", "location"}
//	GET  /healthz
//
// Both POST routes answer with the absolute path of the written poster as
// text/plain. Invalid input gets 400, pipeline failures 500.
//
// The image_path of an overlay request is resolved against the configured
// output directory; a path leaving it is rejected with ErrOutsideOutputDir.
//
// Components are assembled with go.uber.org/fx; see Module.
package server
