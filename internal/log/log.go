// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// tracePrefix marks entries below apex's debug level. The handler strips it
// back off before printing.
const tracePrefix = "TRACE: "

var traceEnabled bool

var levels = map[string]log.Level{
	"trace": log.DebugLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
	"fatal": log.FatalLevel,
}

// InitLogger installs the line handler and picks a level from ORGCTL_LOG.
// Unset or unrecognized values mean error. "trace" rides on apex's debug
// level with an extra gate in Tracef.
func InitLogger() {
	name := strings.ToLower(os.Getenv("ORGCTL_LOG"))
	traceEnabled = name == "trace"

	level, ok := levels[name]
	if !ok {
		level = log.ErrorLevel
	}
	log.SetHandler(&lineHandler{})
	log.SetLevel(level)
}

var levelTags = map[log.Level]string{
	log.DebugLevel: "D",
	log.InfoLevel:  "I",
	log.WarnLevel:  "W",
	log.ErrorLevel: "E",
	log.FatalLevel: "F",
}

// lineHandler prints one timestamped line per entry to stdout.
type lineHandler struct{}

func (h *lineHandler) HandleLog(e *log.Entry) error {
	message := e.Message
	tag := levelTags[e.Level]
	if tag == "" {
		tag = "?"
	}
	if rest, found := strings.CutPrefix(message, tracePrefix); found {
		tag, message = "T", rest
	}
	stamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(os.Stdout, "%s %s %s\n", stamp, tag, message)
	return nil
}

// Tracef logs below debug. It is a no-op unless ORGCTL_LOG=trace.
func Tracef(format string, args ...interface{}) {
	if !traceEnabled {
		return
	}
	log.Debug(tracePrefix + fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Debug logs msg at debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Infof logs at info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry carrying err.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
