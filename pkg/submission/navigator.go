package submission

import (
	"github.com/goliatone/go-formpipe/pkg/model"
	"go.uber.org/zap"
)

const (
	// DefaultRedirect is the page shown after a successful submission.
	DefaultRedirect = "thank_you.html"
)

// Navigator moves the page session to another destination.
type Navigator interface {
	Navigate(destination string)
}

// NavigatorFunc adapts a function into a Navigator.
type NavigatorFunc func(destination string)

// Navigate calls the underlying function.
func (fn NavigatorFunc) Navigate(destination string) {
	fn(destination)
}

// LogNavigator records navigations without acting on them. It is the
// default for headless sessions.
type LogNavigator struct {
	Logger *zap.Logger
}

// Navigate logs destination.
func (n LogNavigator) Navigate(destination string) {
	logger := n.Logger
	if logger == nil {
		return
	}
	logger.Info("navigate", zap.String("destination", destination))
}

// Notifier receives user facing feedback. *notify.Presenter satisfies it.
type Notifier interface {
	Show(message string, severity model.Severity)
}

type nopNotifier struct{}

func (nopNotifier) Show(string, model.Severity) {}
