package sl

import "log/slog"

// Module tags a logger with the subsystem it belongs to.
func Module(name string) slog.Attr {
	return slog.String("module", name)
}

// Err wraps an error as a slog attribute.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Secret logs a sensitive value in redacted form, keeping only a short
// prefix so requests can still be correlated.
func Secret(key, value string) slog.Attr {
	const keep = 4
	if len(value) <= keep {
		return slog.String(key, "***")
	}
	return slog.String(key, value[:keep]+"***")
}
