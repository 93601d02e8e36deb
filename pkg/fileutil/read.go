package fileutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/thoreinstein/ionx/internal/errors"
)

// MaxFileSize is the largest project file ionx will read (1MB).
const MaxFileSize = 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file up to MaxFileSize.
// A missing file yields an error matching os.ErrNotExist.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return data, nil
}

// SyntaxError reports invalid JSON with a 1-based position.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ReadJSON reads path and decodes it into v. Decode failures are returned
// as *SyntaxError; read failures are returned wrapped.
func ReadJSON(path string, v any) error {
	data, err := ReadFileWithLimit(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return newSyntaxError(path, data, err)
	}
	return nil
}

func newSyntaxError(path string, data []byte, err error) *SyntaxError {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	line, col := OffsetToLineCol(data, offset)
	return &SyntaxError{Path: path, Line: line, Column: col, Err: err}
}

// OffsetToLineCol converts a byte offset into 1-based line and column.
func OffsetToLineCol(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
