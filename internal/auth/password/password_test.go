package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	if !Verify("123456", hash) {
		t.Fatal("expected matching password to verify")
	}
	if Verify("wrong", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$salt",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
	} {
		if Verify("123456", encoded) {
			t.Fatalf("expected %q to be rejected", encoded)
		}
	}
}
