package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const (
	defaultLogLines = 200
	maxLogLines     = 5000
)

var errNoLogFile = errors.New("no log file configured")

// LogsHandler serves the tail of the application log file.
type LogsHandler struct {
	fs      afero.Fs
	logFile string
}

func NewLogsHandler(fs afero.Fs, logFile string) *LogsHandler {
	return &LogsHandler{fs: fs, logFile: logFile}
}

// Tail returns the last ?lines= lines of the log as plain text.
func (h *LogsHandler) Tail(w http.ResponseWriter, r *http.Request) {
	n := defaultLogLines
	if v := r.URL.Query().Get("lines"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("lines must be a positive integer"))
			return
		}
		n = min(parsed, maxLogLines)
	}

	if h.logFile == "" {
		writeError(w, http.StatusNotFound, errNoLogFile)
		return
	}
	file, err := h.fs.Open(h.logFile)
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer file.Close()

	lines, err := readLastNLines(file, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, strings.Join(lines, "\n"))
}

// readLastNLines reads file backwards in chunks until it has n lines.
func readLastNLines(file afero.File, n int) ([]string, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	const chunkSize = 64 * 1024
	var (
		lines    []string
		leftover []byte
	)
	position := stat.Size()
	for position > 0 && len(lines) < n {
		readSize := min(int64(chunkSize), position)
		position -= readSize

		chunk := make([]byte, readSize)
		if _, err := file.ReadAt(chunk, position); err != nil && err != io.EOF {
			return nil, err
		}
		chunk = append(chunk, leftover...)

		parts := bytes.Split(chunk, []byte("\n"))
		leftover = parts[0]
		for i := len(parts) - 1; i > 0 && len(lines) < n; i-- {
			line := string(bytes.TrimRight(parts[i], "\r"))
			if line == "" && len(lines) == 0 {
				continue
			}
			lines = append(lines, line)
		}
	}
	if len(leftover) > 0 && len(lines) < n {
		lines = append(lines, string(leftover))
	}

	// collected newest first
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}
