// Package fasta reads query sequences from FASTA files.
package fasta

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoRecords is returned when the input holds no sequence.
var ErrNoRecords = errors.New("fasta: no records")

// Record is one FASTA entry. Seq is upper-cased with line breaks and
// whitespace removed.
type Record struct {
	ID  string
	Seq string
}

// Read parses all records from r. Lines before the first header are treated
// as an unnamed record so that bare sequences are accepted.
func Read(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var (
		out []Record
		cur *Record
		seq strings.Builder
	)
	flush := func() {
		if cur != nil && seq.Len() > 0 {
			cur.Seq = strings.ToUpper(seq.String())
			out = append(out, *cur)
		}
		seq.Reset()
	}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, ">"):
			flush()
			cur = &Record{}
			if f := strings.Fields(line[1:]); len(f) > 0 {
				cur.ID = f[0]
			}
		default:
			if cur == nil {
				cur = &Record{}
			}
			seq.WriteString(strings.Join(strings.Fields(line), ""))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}
	flush()
	if len(out) == 0 {
		return nil, ErrNoRecords
	}
	return out, nil
}

// ReadFile parses path; "-" reads stdin and gzip input is detected by magic
// number or a .gz suffix.
func ReadFile(path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Read(rc)
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}
