// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline

// # Filter Helpers

// Prepend returns a [Filter] that runs stage before everything configured so far.
func Prepend(stage Middleware) Filter {
	return func(next Configure) Configure {
		return func(builder *Builder) {
			builder.Use(stage)
			next(builder)
		}
	}
}

// Append returns a [Filter] that runs stage after everything configured so
// far, closest to the terminal handler.
func Append(stage Middleware) Filter {
	return func(next Configure) Configure {
		return func(builder *Builder) {
			next(builder)
			builder.Use(stage)
		}
	}
}

// PathBaseFilter prepends a stage that sets [Context.PathBase] for every request.
func PathBaseFilter(pathBase string) Filter {
	return Prepend(func(next Handler) Handler {
		return func(c *Context) error {
			c.PathBase = pathBase
			return next(c)
		}
	})
}
