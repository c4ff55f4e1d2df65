package userservice

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 600_000
	pbkdf2SaltLen    = 16
	pbkdf2KeyLen     = 32
)

var errMalformedHash = errors.New("malformed password hash")

// set derives a PBKDF2-HMAC-SHA256 hash with a fresh random salt and stores
// it in the self-describing form "pbkdf2:sha256:<iterations>$<salt>$<hash>",
// so the parameters can be raised later without invalidating old rows.
func (p *Password) set(pwd string) error {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return err
	}

	key := pbkdf2.Key([]byte(pwd), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	p.Plain = pwd
	p.hash = fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", pbkdf2Iterations, hex.EncodeToString(salt), hex.EncodeToString(key))

	return nil
}

func (p *Password) compare(pwd string) (bool, error) {
	method, iterations, salt, key, err := parseHash(p.hash)
	if err != nil {
		return false, err
	}

	if method != "sha256" {
		return false, fmt.Errorf("unsupported hash method %q", method)
	}

	candidate := pbkdf2.Key([]byte(pwd), salt, iterations, len(key), sha256.New)

	return hmac.Equal(candidate, key), nil
}

func parseHash(stored string) (method string, iterations int, salt, key []byte, err error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return "", 0, nil, nil, errMalformedHash
	}

	header := strings.Split(parts[0], ":")
	if len(header) != 3 || header[0] != "pbkdf2" {
		return "", 0, nil, nil, errMalformedHash
	}

	iterations, err = strconv.Atoi(header[2])
	if err != nil {
		return "", 0, nil, nil, errMalformedHash
	}

	salt, err = hex.DecodeString(parts[1])
	if err != nil {
		return "", 0, nil, nil, errMalformedHash
	}

	key, err = hex.DecodeString(parts[2])
	if err != nil {
		return "", 0, nil, nil, errMalformedHash
	}

	return header[1], iterations, salt, key, nil
}
