package report

import (
	"github.com/getsentry/sentry-go"
)

// CaptureCommandError sends a failed command to Sentry, grouped by command and error.
func CaptureCommandError(command string, tags map[string]string, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		scope.SetTag("command.name", command)
		scope.SetFingerprint([]string{command, err.Error()})
		scope.SetLevel(sentry.LevelError)
		sentry.CaptureException(err)
	})
}

func CaptureRouteError(method string, path string, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", method)
		scope.SetTag("path", path)
		scope.SetLevel(sentry.LevelError)
		sentry.CaptureException(err)
	})
}

// CaptureTaskError reports an error of a scheduled task.
func CaptureTaskError(task string, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("task", task)
		scope.SetLevel(sentry.LevelError)
		sentry.CaptureException(err)
	})
}
