package source

import (
	"bufio"
	"os"
)

// ReadLines opens a combat log and calls fn for each line with its
// one-based line number. Reading stops at the first error fn returns.
// The returned count is the number of lines read, including the line
// fn rejected.
func ReadLines(path string, fn func(lineNo int64, line string) error) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	var lineNo int64
	for scanner.Scan() {
		lineNo++
		if err := fn(lineNo, scanner.Text()); err != nil {
			return lineNo, err
		}
	}
	return lineNo, scanner.Err()
}
