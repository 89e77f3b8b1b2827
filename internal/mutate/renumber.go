package mutate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// serial columns in a PDB coordinate record (0-indexed, end exclusive)
const (
	serialStart = 6
	serialEnd   = 11
)

// Renumber writes a copy of the PDB at in to out with its atom serials
// renumbered from 1. It returns the number of renumbered records
func Renumber(in, out string) (int, error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDB: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("failed to create renumbered PDB: %w", err)
	}

	n, err := RenumberLines(src, dst)
	if err != nil {
		dst.Close()
		return n, fmt.Errorf("failed to renumber %s: %w", in, err)
	}
	if err := dst.Close(); err != nil {
		return n, fmt.Errorf("failed to write %s: %w", out, err)
	}
	return n, nil
}

// RenumberLines copies r to w, replacing the serial (columns 7-11) of every
// ATOM and HETATM record with a counter that starts at 1. All other
// lines and columns are copied unchanged
func RenumberLines(r io.Reader, w io.Writer) (int, error) {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	n := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if isCoordinate(line) {
				n++
				line = withSerial(line, n)
			}
			if _, werr := bw.WriteString(line); werr != nil {
				return n, werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
	}

	return n, bw.Flush()
}

// isCoordinate returns whether the line is an ATOM or HETATM record
func isCoordinate(line string) bool {
	return strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM")
}

// withSerial returns the line with n right-justified in the serial columns
func withSerial(line string, n int) string {
	body := strings.TrimRight(line, "\r\n")
	ending := line[len(body):]

	head := body[:min(serialStart, len(body))]
	tail := ""
	if len(body) > serialEnd {
		tail = body[serialEnd:]
	}

	return fmt.Sprintf("%s%5d%s%s", head, n, tail, ending)
}
