package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var errNoPassword = errors.New("password required: pass --password, set VERINEWS_PASSWORD or run in a terminal")

// promptPassword reads a password without echo when in is a terminal.
func promptPassword(in io.Reader, prompt io.Writer) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errNoPassword
	}
	fmt.Fprint(prompt, "Password: ")
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password failed: %w", err)
	}
	return string(raw), nil
}
