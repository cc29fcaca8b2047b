package session

import (
	"sync"
	"time"

	"github.com/DekunleJr/Signatures/internal/logger"
)

// Severity of a transient notification.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notice is one transient user-facing notification.
type Notice struct {
	Severity Severity
	Title    string
	Message  string
	At       time.Time
}

const noticeHistory = 50

// Notifier collects transient notifications for the UI to surface. It is
// cosmetic: nothing about the session invariant depends on it.
type Notifier struct {
	mu      sync.Mutex
	notices []Notice
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) push(sev Severity, title, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.notices = append(n.notices, Notice{Severity: sev, Title: title, Message: msg, At: time.Now()})
	if len(n.notices) > noticeHistory {
		n.notices = n.notices[len(n.notices)-noticeHistory:]
	}
	logger.Debug("notice", logger.F("severity", sev.String()), logger.F("title", title), logger.F("message", msg))
}

// Success reports a successful outcome.
func (n *Notifier) Success(title, msg string) { n.push(SeveritySuccess, title, msg) }

// Info reports a neutral outcome.
func (n *Notifier) Info(title, msg string) { n.push(SeverityInfo, title, msg) }

// Warning reports a recoverable problem.
func (n *Notifier) Warning(title, msg string) { n.push(SeverityWarning, title, msg) }

// Error reports a failed outcome.
func (n *Notifier) Error(title, msg string) { n.push(SeverityError, title, msg) }

// Latest returns the most recent notice, or nil if none has been posted.
func (n *Notifier) Latest() *Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.notices) == 0 {
		return nil
	}
	latest := n.notices[len(n.notices)-1]
	return &latest
}

// All returns a copy of the notice history, oldest first.
func (n *Notifier) All() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notice, len(n.notices))
	copy(out, n.notices)
	return out
}
