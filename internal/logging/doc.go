// Package logging provides the slog setup shared by the duplifolder CLI and
// its long-running modes.
//
// Terminal output uses [Handler], a compact colorized format. JSON output
// and a mirrored --log-file are available through [Config]:
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(v),
//		Format: logging.FormatText,
//		File:   f,
//	})
//	logger.Info("backup complete", "destination", dst)
//
// Components receive the logger through options or a context
// ([NewContext], [FromContext]). Tests use [ForTest].
package logging
