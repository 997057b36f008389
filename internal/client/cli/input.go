package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is replaced in tests to keep them away from the terminal.
var readPassword = term.ReadPassword

func promptLine(reader *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when in is a terminal and falls back
// to a plain line from reader otherwise.
func promptPassword(in io.Reader, reader *bufio.Reader, w io.Writer) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return promptLine(reader, w, "Password")
	}
	fd := int(f.Fd())

	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return "", err
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	return string(pw), nil
}
