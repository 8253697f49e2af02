// Package log provides the key/value logger used across modelnav.
package log

import (
	"fmt"
	"log"
	"strings"
)

// Root is the process-wide fallback logger.
var Root Logger = &Default{}

// Logger logs a message followed by key value pairs. Keys must be strings and
// values should have a meaningful string representation.
type Logger interface {
	Debug(string, ...interface{})
	Error(string, ...interface{})
	With(...interface{}) Logger
}

// Default writes through the standard library logger.
type Default struct {
	Tags []interface{}
}

func (l *Default) Debug(m string, s ...interface{}) { log.Print(tfmt("DEB ", m, s, l.Tags)) }
func (l *Default) Error(m string, s ...interface{}) { log.Print(tfmt("ERR ", m, s, l.Tags)) }
func (l *Default) With(tags ...interface{}) Logger  { return &Default{Tags: joinTags(tags, l.Tags)} }

// Func adapts a line sink, e.g. a status bar, into a Logger.
type Func struct {
	Sink func(line string)
	Tags []interface{}
}

func (l *Func) Debug(m string, s ...interface{}) { l.emit("DEB ", m, s) }
func (l *Func) Error(m string, s ...interface{}) { l.emit("ERR ", m, s) }
func (l *Func) With(tags ...interface{}) Logger {
	return &Func{Sink: l.Sink, Tags: joinTags(tags, l.Tags)}
}

func (l *Func) emit(lvl, m string, s []interface{}) {
	if l.Sink == nil {
		return
	}
	l.Sink(tfmt(lvl, m, s, l.Tags))
}

// Discard drops everything.
type Discard struct{}

func (Discard) Debug(string, ...interface{}) {}
func (Discard) Error(string, ...interface{}) {}
func (d Discard) With(...interface{}) Logger { return d }

func joinTags(front, back []interface{}) []interface{} {
	t := make([]interface{}, 0, len(front)+len(back))
	t = append(t, front...)
	return append(t, back...)
}

func tfmt(lvl, msg string, all ...[]interface{}) string {
	var b strings.Builder
	b.WriteString(lvl)
	b.WriteString(msg)
	for _, tags := range all {
		for i, v := range tags {
			if i%2 == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte('=')
			}
			b.WriteString(fmt.Sprint(v))
		}
	}
	return b.String()
}
