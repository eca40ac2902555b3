package encryption

import (
	"bytes"
	"fmt"
	"strings"

	"gt-go/internal/plant"
)

// A sealed plant document is one header line naming the format, the cipher
// and the key it was sealed to, followed by the cipher's output:
//
//	gt-plants/1 age age1ql3z7hjy54pw3hyww5ayyfg7zqgvc7w3j2elw8zmrj2kg5sfn9aqmcac8p
//	<age ciphertext>
const envelopeMagic = "gt-plants/1"

// ageMagic starts a bare age file, one not written by gt.
const ageMagic = "age-encryption.org/"

// maxHeaderLen bounds the search for the header line.
const maxHeaderLen = 256

const (
	cipherAge  = "age"
	cipherTest = "test"
)

type envelope struct {
	cipher string
	keyID  string
}

// wrap prefixes body with the envelope header.
func (e envelope) wrap(body []byte) []byte {
	header := envelopeMagic + " " + e.cipher + " " + e.keyID + "\n"
	out := make([]byte, 0, len(header)+len(body))
	out = append(out, header...)
	return append(out, body...)
}

// check reports whether e was sealed by cipher for keyID.
func (e envelope) check(cipher, keyID string) error {
	if e.cipher != cipher {
		return fmt.Errorf("%w: plant file is sealed with %q, not %q", plant.ErrCorruptData, e.cipher, cipher)
	}
	if e.keyID != keyID {
		return fmt.Errorf("%w: plant file is sealed to key %s, not %s", plant.ErrCorruptData, e.keyID, keyID)
	}
	return nil
}

// unwrap splits sealed into its envelope and body.
func unwrap(sealed []byte) (envelope, []byte, error) {
	head := sealed[:min(len(sealed), maxHeaderLen)]
	if bytes.HasPrefix(head, []byte(ageMagic)) {
		return envelope{}, nil, fmt.Errorf("%w: age file was not written by gt", plant.ErrCorruptData)
	}

	i := bytes.IndexByte(head, '\n')
	if i < 0 {
		return envelope{}, nil, fmt.Errorf("%w: not an encrypted plant file", plant.ErrCorruptData)
	}
	fields := strings.Fields(string(head[:i]))
	if len(fields) != 3 || fields[0] != envelopeMagic {
		return envelope{}, nil, fmt.Errorf("%w: not an encrypted plant file", plant.ErrCorruptData)
	}
	return envelope{cipher: fields[1], keyID: fields[2]}, sealed[i+1:], nil
}
