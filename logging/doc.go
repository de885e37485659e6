// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package logging configures the default slog logger: JSON to stdout, plus a
// size-rotated file when LOG_FILE is set.
package logging
