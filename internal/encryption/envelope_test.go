package encryption

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gt-go/internal/plant"
)

func TestEnvelope_WrapUnwrap(t *testing.T) {
	t.Parallel()

	env := envelope{cipher: cipherAge, keyID: "age1abc"}
	body := []byte("binary\nbody\x00with newlines")

	sealed := env.wrap(body)
	if want := "gt-plants/1 age age1abc\n"; !strings.HasPrefix(string(sealed), want) {
		t.Errorf("wrap() header = %q, want %q", firstLine(sealed), want)
	}

	got, gotBody, err := unwrap(sealed)
	if err != nil {
		t.Fatalf("unwrap() error = %v", err)
	}
	if got != env {
		t.Errorf("unwrap() envelope = %+v, want %+v", got, env)
	}
	if !bytes.Equal(gotBody, body) {
		t.Errorf("unwrap() body = %q, want %q", gotBody, body)
	}
	if err := got.check(cipherAge, "age1abc"); err != nil {
		t.Errorf("check() error = %v", err)
	}
}

func TestUnwrap_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "json document", input: "[\n    {\"name\": \"Fern\"}\n]\n"},
		{name: "no newline", input: "gt-plants/1 age age1abc"},
		{name: "missing key", input: "gt-plants/1 age\nbody"},
		{name: "extra field", input: "gt-plants/1 age age1abc more\nbody"},
		{name: "header too long", input: "gt-plants/1 age " + strings.Repeat("k", maxHeaderLen) + "\nbody"},
		{name: "bare age file", input: "age-encryption.org/v1\n-> X25519 abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := unwrap([]byte(tt.input)); !errors.Is(err, plant.ErrCorruptData) {
				t.Errorf("unwrap(%q) error = %v, want ErrCorruptData", tt.input, err)
			}
		})
	}
}
