package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PassphraseFunc supplies the passphrase that unlocks the private key.
// It is only called when encryption is configured.
type PassphraseFunc func() (string, error)

// StaticPassphrase returns a PassphraseFunc that always yields passphrase.
func StaticPassphrase(passphrase string) PassphraseFunc {
	return func() (string, error) { return passphrase, nil }
}

// EnvOrPromptPassphrase reads GT_PASSPHRASE, or prompts on the terminal
// without echo when it is unset.
func EnvOrPromptPassphrase() PassphraseFunc {
	return func() (string, error) {
		if p := os.Getenv(EnvPassphrase); p != "" {
			return p, nil
		}
		return ReadPassphrase("Passphrase: ")
	}
}

// ReadPassphrase prints prompt to stderr and reads a line from the terminal
// without echo.
func ReadPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal to read the passphrase from; set %s", EnvPassphrase)
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// ReadNewPassphrase prompts twice and fails when the entries differ or are empty.
func ReadNewPassphrase() (string, error) {
	if p := os.Getenv(EnvPassphrase); p != "" {
		return p, nil
	}

	first, err := ReadPassphrase("New passphrase: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	second, err := ReadPassphrase("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	return first, nil
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm writes question to out and reads a yes/no answer from in.
// Only "y" and "yes" (any case) confirm.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
