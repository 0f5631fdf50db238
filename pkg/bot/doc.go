// Package bot answers chat messages that contain formation notation with
// rendered images.
//
// Messages mark notation with tags. With the default tags
//
//	look at this: /f r1> b2< f/ :// ignored from here
//
// yields the snippet " r1> b2< ". [Tags] extracts snippets, [Handler]
// renders each one to PNG through a [pipeline.Runner], and [Discord]
// connects the handler to a Discord bot account. The handler is platform
// neutral so other chat integrations can reuse it.
//
// Snippets that produce no dancers are skipped. A snippet that fails to
// rasterize is logged and skipped; the other images of the message are
// still sent. When nothing was produced no reply is sent.
//
// Configuration is read from a TOML file, see [Config].
package bot
