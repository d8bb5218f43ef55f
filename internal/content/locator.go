// Package content finds the game's index.html and watches it for changes.
package content

import (
	"bytes"
	"io"
	"os"

	"go.uber.org/zap"
)

// IndexFile is appended to each candidate directory.
const IndexFile = "/index.html"

// URLPrefix turns a located path into the URL handed to the web view.
const URLPrefix = "file://"

// Header is the leading text every valid index.html starts with.
var Header = []byte("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=utf-8>\n<title>XSR1</title>")

// Locator probes the working directory, then the installation data
// directory, for an index.html whose first bytes equal Header.
type Locator struct {
	// DataDir is the installation data directory. Empty skips that candidate.
	DataDir string

	// Header overrides the package Header when set.
	Header []byte

	// Getwd defaults to os.Getwd.
	Getwd func() (string, error)

	log *zap.Logger
}

func NewLocator(dataDir string, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{
		DataDir: dataDir,
		Getwd:   os.Getwd,
		log:     logger.Named("locator"),
	}
}

// Candidates lists the paths Locate would probe, in order.
func (l *Locator) Candidates() []string {
	var paths []string
	getwd := l.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	if cwd, err := getwd(); err == nil {
		paths = append(paths, cwd+IndexFile)
	} else {
		l.logger().Debug("working directory unavailable", zap.Error(err))
	}
	if l.DataDir != "" {
		paths = append(paths, l.DataDir+IndexFile)
	}
	return paths
}

// Locate returns the first candidate that passes Valid. Every kind of failure
// only disqualifies the candidate; ok is false when none qualifies.
func (l *Locator) Locate() (path string, ok bool) {
	header := l.Header
	if header == nil {
		header = Header
	}
	for _, candidate := range l.Candidates() {
		if Valid(candidate, header) {
			l.logger().Debug("content located", zap.String("path", candidate))
			return candidate, true
		}
		l.logger().Debug("candidate rejected", zap.String("path", candidate))
	}
	return "", false
}

func (l *Locator) logger() *zap.Logger {
	if l.log == nil {
		return zap.NewNop()
	}
	return l.log
}

// Valid reports whether the file at path opens and its first len(header)
// bytes equal header. A file shorter than header is invalid.
func Valid(path string, header []byte) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, len(header))
	if _, err := io.ReadFull(f, buf); err != nil {
		return false
	}
	return bytes.Equal(buf, header)
}

// StartURL prefixes path with URLPrefix. The path is not escaped.
func StartURL(path string) string {
	return URLPrefix + path
}
