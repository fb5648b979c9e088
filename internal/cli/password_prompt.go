package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

var errNotTerminal = errors.New("stdin is not a terminal")

// readPasswordNoEcho reads one line from stdin. Echo is switched off when
// stdin is a terminal; piped input is read as is so scripts can provision
// users. The reader is shared between prompts so buffered input is not lost.
func readPasswordNoEcho(stdin *os.File, reader *bufio.Reader) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	restore, err := disableEcho(stdin)
	if err != nil && !errors.Is(err, errNotTerminal) {
		return nil, err
	}
	if restore != nil {
		defer restore()
	}

	return readLine(reader)
}

func readLine(reader *bufio.Reader) ([]byte, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return []byte(line), nil
}
