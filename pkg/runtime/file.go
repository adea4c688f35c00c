package runtime

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"nyaa/interpreter-go/pkg/diag"
)

// FileValue is a handle opened by f_open. Reads go through a buffered reader
// so f_EOF can look ahead without losing data.
type FileValue struct {
	Path string
	Mode string

	file   *os.File
	reader *bufio.Reader
	writer *bufio.Writer
	closed bool
}

func (*FileValue) Kind() Kind { return KindFile }

// OpenFile opens path in mode "r", "w", or "a".
func OpenFile(path, mode string) (*FileValue, error) {
	var flag int
	switch mode {
	case "r":
		flag = os.O_RDONLY
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return nil, diag.New(diag.Runtime, diag.ErrFileMode, diag.Span{}, "invalid file mode %q (want r, w, or a)", mode)
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, diag.Wrap(diag.Runtime, diag.ErrFileIO, diag.Span{}, err, "cannot open %q", path)
	}
	fv := &FileValue{Path: path, Mode: mode, file: f}
	if mode == "r" {
		fv.reader = bufio.NewReader(f)
	} else {
		fv.writer = bufio.NewWriter(f)
	}
	return fv, nil
}

func (f *FileValue) Close() error {
	if f.closed {
		return diag.New(diag.Runtime, diag.ErrFileState, diag.Span{}, "file %q is already closed", f.Path)
	}
	f.closed = true
	var flushErr error
	if f.writer != nil {
		flushErr = f.writer.Flush()
	}
	if err := errors.Join(flushErr, f.file.Close()); err != nil {
		return diag.Wrap(diag.Runtime, diag.ErrFileIO, diag.Span{}, err, "cannot close %q", f.Path)
	}
	return nil
}

func (f *FileValue) checkReadable() error {
	if f.closed {
		return diag.New(diag.Runtime, diag.ErrFileState, diag.Span{}, "file %q is closed", f.Path)
	}
	if f.reader == nil {
		return diag.New(diag.Runtime, diag.ErrFileMode, diag.Span{}, "file %q is not open for reading (mode %q)", f.Path, f.Mode)
	}
	return nil
}

func (f *FileValue) checkWritable() error {
	if f.closed {
		return diag.New(diag.Runtime, diag.ErrFileState, diag.Span{}, "file %q is closed", f.Path)
	}
	if f.writer == nil {
		return diag.New(diag.Runtime, diag.ErrFileMode, diag.Span{}, "file %q is not open for writing (mode %q)", f.Path, f.Mode)
	}
	return nil
}

// Read returns up to n characters; n < 0 reads the rest of the file.
func (f *FileValue) Read(n int) (string, error) {
	if err := f.checkReadable(); err != nil {
		return "", err
	}
	if n < 0 {
		data, err := io.ReadAll(f.reader)
		if err != nil {
			return "", diag.Wrap(diag.Runtime, diag.ErrFileIO, diag.Span{}, err, "cannot read %q", f.Path)
		}
		return string(data), nil
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		r, _, err := f.reader.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", diag.Wrap(diag.Runtime, diag.ErrFileIO, diag.Span{}, err, "cannot read %q", f.Path)
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// ReadLine returns the next line without its terminator.
func (f *FileValue) ReadLine() (string, error) {
	if err := f.checkReadable(); err != nil {
		return "", err
	}
	line, err := f.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", diag.Wrap(diag.Runtime, diag.ErrFileIO, diag.Span{}, err, "cannot read %q", f.Path)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// AtEOF reports whether no input remains.
func (f *FileValue) AtEOF() (bool, error) {
	if err := f.checkReadable(); err != nil {
		return false, err
	}
	_, err := f.reader.Peek(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, diag.Wrap(diag.Runtime, diag.ErrFileIO, diag.Span{}, err, "cannot read %q", f.Path)
	}
	return false, nil
}

func (f *FileValue) Write(s string) error {
	if err := f.checkWritable(); err != nil {
		return err
	}
	if _, err := f.writer.WriteString(s); err != nil {
		return diag.Wrap(diag.Runtime, diag.ErrFileIO, diag.Span{}, err, "cannot write %q", f.Path)
	}
	return nil
}
