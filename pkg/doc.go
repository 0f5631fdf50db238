// Package pkg provides the libraries behind formationbot.
//
// # Overview
//
// Formationbot draws square dance formations from a compact text notation
// such as "r1> b2<" (a red dancer 1 facing east beside a blue dancer 2
// facing west). The pkg directory is organized into:
//
//  1. [formation] - Notation parser and the formation data model
//  2. [render] - SVG, PNG and Graphviz back-ends
//  3. [pipeline] - Orchestration (parse → render → rasterize) with caching
//  4. [cache] - Artifact stores (file, Redis, none)
//  5. [bot] - Snippet extraction and the Discord adapter
//  6. [server] - HTTP render service
//
// # Architecture
//
//	notation text
//	     ↓
//	[formation] Parse (never fails)
//	     ↓
//	[render/svg] Render
//	     ↓
//	[render/raster] ToPixels (PNG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/formationbot/pkg/formation"
//	    "github.com/matzehuels/formationbot/pkg/render/raster"
//	    "github.com/matzehuels/formationbot/pkg/render/svg"
//	)
//
//	f := formation.Parse("<>/><")
//	doc := svg.Render(f)
//	png, err := raster.Auto().ToPixels(ctx, doc, doc.Width(), doc.Height())
//
// # Supporting Packages
//
// [errors] - Error codes shared by the CLI, the HTTP service and the bot.
//
// [observability] - Hook interfaces for metrics and tracing. All hooks
// default to no-ops.
//
// [fonts] - The embedded label face used by the native rasterizer.
//
// [buildinfo] - Version information injected at build time.
//
// [formation]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/formation
// [render]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/cache
// [bot]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/bot
// [server]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/observability
// [fonts]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/formationbot/pkg/buildinfo
package pkg
