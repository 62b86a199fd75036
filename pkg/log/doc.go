/*
Package log provides structured logging for bitte using zerolog.

The package wraps a single global zerolog.Logger that every other package
logs through, either directly or via a child logger carrying context fields.
Until Init is called the global logger discards everything, so library code
and tests can log freely without configuring output.

# Configuration

Init sets the global level and output format:

	log.Init(log.Config{
		Level:      log.LevelFromVerbosity(verbose),
		JSONOutput: false,
		Output:     os.Stderr,
	})

Output defaults to stderr because stdout carries command output such as the
JSON or YAML form of a cluster snapshot.

Verbosity follows the command line convention of repeated -v flags:

	(unset)  warn
	-v       info
	-vv      debug
	-vvv     trace

# Context Loggers

	logger := log.WithComponent("scheduler")
	logger.Debug().Str("url", url).Msg("querying")

	regional := log.WithRegion("inventory", "eu-central-1")
	regional.Info().Int("nodes", n).Msg("described instances")

The helpers return a zerolog.Logger value; bind it before calling level
methods, which have pointer receivers.

Init must run before goroutines that log are started; the orchestrator is
launched only after logging is configured.

# Security

Scheduler tokens are never passed to the logger. The client package's Token
type redacts itself when formatted, so accidental %v or Interface() logging
does not leak it either.
*/
package log
