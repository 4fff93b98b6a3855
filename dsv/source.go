package dsv

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

/**
 *	################################################################
 *	#						Line sources
 *	################################################################
 */

// LineSource is the input contract of a parse session. It yields one
// physical line per call and owns whatever resource backs the lines.
// Four implementations are shipped: ReaderSource for any io.Reader,
// SliceSource for in-memory lines, a decoding source for legacy code
// pages, and FileSource for files held under an advisory lock.
type LineSource interface {
	// ReadLine returns the next physical line without its line break. A
	// carriage return directly before the line feed is stripped. ReadLine
	// returns io.EOF once the input is exhausted.
	ReadLine() (string, error)
}

/**
 *	################################################################
 *	#						Reader-backed source
 *	################################################################
 */

// ReaderSource reads physical lines from an io.Reader through an internal
// buffer. A final line without a trailing line break is still yielded.
type ReaderSource struct {
	reader *bufio.Reader
	err    error
}

// NewReaderSource returns a line source reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{reader: bufio.NewReader(r)}
}

// NewStringSource returns a line source reading from an in-memory string.
func NewStringSource(s string) *ReaderSource {
	return &ReaderSource{reader: bufio.NewReader(strings.NewReader(s))}
}

// NewDecodingSource returns a line source reading from r and decoding it
// from enc before lines are split, for inputs in legacy code pages such as
// charmap.Windows1252. Decoding bytes to characters is the line source's
// job; the parsing engine itself is character oriented.
func NewDecodingSource(r io.Reader, enc encoding.Encoding) *ReaderSource {
	return NewReaderSource(transform.NewReader(r, enc.NewDecoder()))
}

func (s *ReaderSource) ReadLine() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		s.err = err
		if len(line) == 0 {
			return "", err
		}
	}
	return trimLineBreak(line), nil
}

// trimLineBreak strips one trailing line feed and a carriage return
// directly before it.
func trimLineBreak(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}

/**
 *	################################################################
 *	#						Slice source
 *	################################################################
 */

// SliceSource yields physical lines from a slice, one element per line.
// The elements are taken verbatim; they must not contain line breaks.
type SliceSource struct {
	lines []string
	next  int
}

// NewSliceSource returns a line source yielding the given lines in order.
func NewSliceSource(lines ...string) *SliceSource {
	return &SliceSource{lines: lines}
}

func (s *SliceSource) ReadLine() (string, error) {
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

/**
 *	################################################################
 *	#						File source
 *	################################################################
 */

// FileSource reads physical lines from a file held under a shared advisory
// lock for the lifetime of the source, so that a writer rewriting the file
// in place cannot race a running parse. Locking is advisory and
// platform-specific: flock on unix systems, LockFileEx on Windows.
type FileSource struct {
	file *os.File
	src  *ReaderSource
}

// OpenFileSource opens path for reading and takes the shared lock. The
// lock is held until Close.
func OpenFileSource(path string) (*FileSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, newError("dsv-source-openfile-1", err)
	}
	if err := lockFile(file); err != nil {
		file.Close()
		return nil, newError("dsv-source-openfile-2", err)
	}
	debugf("Opened file source: %s", path)
	return &FileSource{file: file, src: NewReaderSource(file)}, nil
}

func (s *FileSource) ReadLine() (string, error) {
	return s.src.ReadLine()
}

// Name returns the path of the underlying file.
func (s *FileSource) Name() string {
	return s.file.Name()
}

// Close releases the lock and closes the file.
func (s *FileSource) Close() error {
	if err := unlockFile(s.file); err != nil {
		errorf("Unlocking %s failed with error: %v", s.file.Name(), err)
	}
	if err := s.file.Close(); err != nil {
		return newError("dsv-source-close-1", err)
	}
	return nil
}
