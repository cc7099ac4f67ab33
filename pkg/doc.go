// Package pkg provides the core libraries for backdrop scene layout.
//
// # Overview
//
// Backdrop takes a designed backdrop scene (a canvas, a background image,
// a title and a set of metadata tags) and rearranges it so that nothing
// important sits under the areas a display overlay covers. The pkg
// directory is organized into four main areas:
//
//  1. Domain model: [scene], [geom]
//  2. Engine: [layout], [fade], [metadata]
//  3. Infrastructure: [cache], [profile], [assets], [httputil], [config]
//  4. Orchestration: [pipeline]
//
// # Architecture
//
// The typical data flow through backdrop:
//
//	scene.json + media metadata
//	         ↓
//	    [metadata] package (fill text tags, resize to content)
//	         ↓
//	    [assets] package (replace backdrop and logo, wait for image sizes)
//	         ↓
//	    [profile] package (resolve blocked areas)
//	         ↓
//	    [layout] package (anchor, rows, collisions, overflow)
//	         ↓
//	    [fade] package (edge fades and vignette)
//	         ↓
//	    laid-out scene.json
//
// # Quick Start
//
// Lay out a scene without the pipeline:
//
//	s, _ := scene.ReadFile("scene.json")
//	engine, _ := layout.New(layout.DefaultConfig())
//	res, _ := engine.Run(s)
//	for _, w := range res.Diagnostics.Warnings() {
//	    fmt.Println(w)
//	}
//	_ = scene.WriteFile("out.json", res.Scene)
//
// Or with metadata, profiles and caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger,
//	    pipeline.WithProfiles(store))
//	res, err := runner.Execute(ctx, s, pipeline.Options{
//	    Metadata: metadata.Metadata{Title: "Dune", Year: "2021"},
//	})
//
// # Main Packages
//
// [scene] - The scene document: canvas, margins, elements, tags, fade
// settings and JSON I/O.
//
// [geom] - Rectangles, vertical intervals and row grouping.
//
// [layout] - The constraint engine. Places the anchor in the best free gap,
// packs tag rows below it, resolves collisions with blocked areas and
// handles vertical overflow. Reports everything on [layout.Diagnostics].
//
// [fade] - Linear, corner and radial fade shapes over the background.
//
// [metadata] - Writes media metadata into text tags and measures them.
//
// [profile] - Overlay profiles with file, MongoDB and in-memory stores.
//
// [assets] - Image dimension probing, ambient colour detection and backdrop
// or logo replacement.
//
// [cache] - Layout cache with file, Redis and null backends.
//
// [pipeline] - The complete preparation and layout pass used by the CLI and
// the HTTP API.
//
// [observability] - Hooks for metrics and tracing.
//
// [scene]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/scene
// [geom]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/geom
// [layout]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/layout
// [layout.Diagnostics]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/layout#Diagnostics
// [fade]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/fade
// [metadata]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/metadata
// [profile]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/profile
// [assets]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/assets
// [httputil]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/httputil
// [config]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/config
// [cache]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/z9m/backdrop/pkg/observability
package pkg
