/*
Package logger provides logging functionality to the enum module and the programs built on it
by defining the required behavior in [Logger] and providing an implementation of it with [StdLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An implementation of Logger may be initialized at a certain [LogLevel]
and only emit messages at or above that level of importance.
For example, if [StdLogger] is initialized with [LogLevelWarn],
only [*StdLogger.Warn], [*StdLogger.Error], and [*StdLogger.Fatal] produce messages.

# StdLogger

Log messages emitted by [StdLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [DEBUG] enum/discovery.go:58 'discovered members' log_context: {"data":{"kind":"discovery","members":7,"values":7},"type":"Calendar::DayOfWeek"}

The log context is a JSON-encoded [*LogContext].

# SentryLogger

When SENTRY_DSN is set, [NewLogger] wraps the [StdLogger] in a [SentryLogger],
which additionally reports errors and fatals, and warnings carrying an Error, to Sentry.
Each event is tagged with the Type and Token of its [LogContext] and grouped per Type.

# SkipLogger

Sometimes, especially with internal packages, the file and line number in a log needs to be configurable.
[SkipLogger] provides additional configuration functionality by setting the number of frames to skip
back in order to reach the desired caller.
*/
package logger
