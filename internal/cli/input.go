package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

var (
	// DefaultMaxInputSize is 16MiB.
	DefaultMaxInputSize = 16 << 20
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "TOOLSHED_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrNoInput       = errors.New("no input: pass text as an argument, use --file, or pipe it on stdin")
)

// Input describes where a command's text comes from.
type Input struct {
	Args  []string  // positional arguments, joined with spaces
	File  string    // path, or "-" for stdin
	Stdin io.Reader // defaults to os.Stdin
}

// Read returns the input text. Arguments win over --file, which wins over
// piped stdin. An interactive terminal on stdin is not read.
func (in Input) Read() (string, error) {
	stdin := in.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	switch {
	case len(in.Args) > 0:
		return checkInput([]byte(strings.Join(in.Args, " ")))
	case in.File == "-":
		return readLimited(stdin)
	case in.File != "":
		f, err := os.Open(in.File)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return readLimited(f)
	case IsTerminal(stdin):
		return "", ErrNoInput
	}
	return readLimited(stdin)
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r any) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func readLimited(r io.Reader) (string, error) {
	limit := maxInputSize()
	b, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return checkInput(b)
}

// checkInput rejects rather than truncates so results stay deterministic.
func checkInput(b []byte) (string, error) {
	if limit := maxInputSize(); len(b) > limit {
		return "", fmt.Errorf("%w: limit=%d", ErrInputTooLarge, limit)
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}

// ParseArgs turns key=value pairs into tool arguments. A value of the form
// @path is replaced by the file's contents; @- reads stdin.
func ParseArgs(pairs []string, stdin io.Reader) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q: expected key=value", pair)
		}
		if path, isFile := strings.CutPrefix(value, "@"); isFile && path != "" {
			text, err := Input{File: path, Stdin: stdin}.Read()
			if err != nil {
				return nil, fmt.Errorf("argument %s: %w", key, err)
			}
			value = text
		}
		args[key] = value
	}
	return args, nil
}
