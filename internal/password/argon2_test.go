package password

import (
	"strings"
	"testing"
)

// low-cost parameters to keep the suite fast
func testHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("hash is not PHC formatted: %q", encoded)
	}

	ok, err := h.Verify("password123", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password did not verify")
	}

	ok, err = h.Verify("password124", encoded)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashUsesFreshSalt(t *testing.T) {
	h := testHasher(t)

	first, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := testHasher(t)

	for _, encoded := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
	} {
		if _, err := h.Verify("password123", encoded); err == nil {
			t.Fatalf("malformed hash %q accepted", encoded)
		}
	}
}

func TestNewHasherRejectsWeakParameters(t *testing.T) {
	weak := Config{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16}
	if _, err := NewHasher(weak); err == nil {
		t.Fatal("sub-minimum memory accepted")
	}
}
