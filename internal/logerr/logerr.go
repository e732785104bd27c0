// Package logerr prints timestamped error messages and optionally delivers
// them by email. All configuration is explicit; there is no package state.
package logerr

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/drisen/mylib/internal/timeconv"
)

// Config describes where error mail goes. An empty To list disables mail
// delivery; messages are still printed.
type Config struct {
	Subject  string
	From     string
	To       []string
	Host     string // SMTP server as host:port
	Username string // optional SMTP PLAIN auth
	Password string
}

// Mailer delivers one message. Implementations must not panic on delivery
// failure.
type Mailer interface {
	Send(subject, body string) error
}

// Logger writes timestamped messages to out and mails errors through the
// configured Mailer.
type Logger struct {
	cfg    Config
	zone   *timeconv.Zone
	out    io.Writer
	mailer Mailer
	now    func() time.Time
}

// New returns a Logger. A nil out defaults to stdout, a nil zone to the
// default home zone, and a nil mailer disables mail delivery.
func New(cfg Config, zone *timeconv.Zone, out io.Writer, mailer Mailer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	if zone == nil {
		zone = timeconv.Default()
	}
	return &Logger{cfg: cfg, zone: zone, out: out, mailer: mailer, now: time.Now}
}

// Error prints a timestamped ERROR line and mails the message when a mailer
// and recipients are configured. A delivery failure is reported on the
// output writer; it never interrupts the caller.
func (l *Logger) Error(args ...any) {
	msg := join(args)
	fmt.Fprintf(l.out, "\n%s ERROR %s", l.stamp(timeconv.TimestampLayout), msg)

	if l.mailer == nil || len(l.cfg.To) == 0 {
		return
	}
	if err := l.mailer.Send(l.cfg.Subject, msg); err != nil {
		fmt.Fprintf(l.out, "\nmail delivery failed: %v", err)
	}
}

// PrintIf prints a timestamped message when verbose is positive.
func (l *Logger) PrintIf(verbose int, args ...any) {
	if verbose <= 0 {
		return
	}
	fmt.Fprintf(l.out, "\n%s %s", l.stamp(timeconv.DefaultLayout), join(args))
}

func (l *Logger) stamp(layout string) string {
	secs := float64(l.now().UnixNano()) / 1e9
	return l.zone.Format(timeconv.Seconds(secs), layout, false)
}

// Decrement returns the verbosity level for a lower layer, with a floor of
// zero.
func Decrement(verbose int) int {
	if verbose > 0 {
		return verbose - 1
	}
	return 0
}

// join merges args with single spaces, like fmt.Println without the newline.
func join(args []any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
