// Package password hashes and verifies user passwords with argon2id using
// the PHC string format. Hashing is an explicit, named step performed by the
// signup flow before the record reaches the credential store.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	algorithmID           = "argon2id"
)

// Config holds the argon2id cost parameters.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultConfig returns interactive-login cost parameters.
func DefaultConfig() Config {
	return Config{
		Memory:      64 * 1024,
		Time:        2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher derives and verifies argon2id password hashes. Safe for concurrent
// use.
type Hasher struct {
	config Config
}

// NewHasher validates cfg and returns a Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.Memory < minMemoryKB {
		return nil, errors.New("password: memory must be >= 8192 KB")
	}
	if cfg.Time < minTimeCost {
		return nil, errors.New("password: time cost must be >= 1")
	}
	if cfg.Parallelism < minParallelism {
		return nil, errors.New("password: parallelism must be >= 1")
	}
	if cfg.SaltLength < minSaltLength {
		return nil, errors.New("password: salt length must be >= 16")
	}
	if cfg.KeyLength < minKeyLength {
		return nil, errors.New("password: key length must be >= 16")
	}
	return &Hasher{config: cfg}, nil
}

// Hash derives a PHC-formatted argon2id hash with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash with the parameters embedded in encodedHash and
// compares in constant time. A malformed stored hash is an error, not a
// mismatch.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		uint32(len(parsed.hash)),
	)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1, nil
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("password: invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("password: unsupported algorithm")
	}

	if !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("password: missing argon2 version")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || version != argon2.Version {
		return nil, errors.New("password: unsupported argon2 version")
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < int(minSaltLength) {
		return nil, errors.New("password: invalid salt")
	}

	hash, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, errors.New("password: invalid hash")
	}

	return &parsedPHC{
		memory:      params.memory,
		time:        params.time,
		parallelism: params.parallelism,
		salt:        salt,
		hash:        hash,
	}, nil
}

type parsedParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

func parseParams(part string) (parsedParams, error) {
	var params parsedParams
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return params, errors.New("password: invalid parameter format")
	}

	var haveMemory, haveTime, haveParallelism bool
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return params, errors.New("password: invalid parameter entry")
		}
		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(minMemoryKB) {
				return params, errors.New("password: invalid memory parameter")
			}
			params.memory = uint32(v)
			haveMemory = true
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(minTimeCost) {
				return params, errors.New("password: invalid time parameter")
			}
			params.time = uint32(v)
			haveTime = true
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil || v < uint64(minParallelism) {
				return params, errors.New("password: invalid parallelism parameter")
			}
			params.parallelism = uint8(v)
			haveParallelism = true
		default:
			return params, errors.New("password: unsupported parameter")
		}
	}

	if !haveMemory || !haveTime || !haveParallelism {
		return params, errors.New("password: missing parameters")
	}
	return params, nil
}
