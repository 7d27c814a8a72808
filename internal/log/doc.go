// Package log builds the application's slog logger.
//
// New picks the output format (tint on a terminal, slog text otherwise, or
// JSON lines on request) and wraps it in SecureHandler, which masks
// credential-looking attributes: tokens, passwords, DSNs and URLs with
// embedded credentials. Dataset fingerprints are hex digests and are left
// readable.
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	slog.SetDefault(logger)
package log
