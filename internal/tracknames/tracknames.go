// Package tracknames reads track names, one per line, from a file or
// standard input. Names are consumed in order as tracks are confirmed;
// once the list runs out the remaining tracks are numbered instead.
package tracknames

import (
	"bufio"
	"os"
	"strings"

	"github.com/tphakala/trackcutter-go/internal/errors"
	"github.com/tphakala/trackcutter-go/internal/segmenter"
)

// Source yields track names line by line. It implements
// segmenter.NameSource.
type Source struct {
	file      *os.File // nil when reading standard input
	scanner   *bufio.Scanner
	exhausted bool
}

var _ segmenter.NameSource = (*Source)(nil)

// Open opens a track names file, or standard input when path is "-".
// When segmentation starts at a track number past one, skip names are
// consumed up front so names stay aligned with track numbers. A list
// exhausted during the skip behaves like no list at all.
func Open(path string, skip int) (*Source, error) {
	var file *os.File
	if path == "-" {
		file = nil
		s := &Source{scanner: bufio.NewScanner(os.Stdin)}
		s.skip(skip)
		return s, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Component("tracknames").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	s := &Source{file: file, scanner: bufio.NewScanner(file)}
	s.skip(skip)
	return s, nil
}

func (s *Source) skip(n int) {
	for ; n > 0 && !s.exhausted; n-- {
		if !s.scanner.Scan() {
			s.exhausted = true
		}
	}
}

// Next implements segmenter.NameSource. Trailing whitespace is trimmed
// from each name.
func (s *Source) Next() (string, bool) {
	if s.exhausted {
		return "", false
	}
	if !s.scanner.Scan() {
		s.exhausted = true
		return "", false
	}
	return strings.TrimRight(s.scanner.Text(), " \t\r\n"), true
}

// Close releases the underlying file. Safe on a standard input source.
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
