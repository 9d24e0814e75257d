package security

import (
	"strings"
	"testing"
)

// testArgon2Config keeps hashing cheap enough for the test suite while
// staying above the validation floor.
func testArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	}
}

func TestHasherRoundTrip(t *testing.T) {
	hasher, err := NewHasher(testArgon2Config())
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "argon2id$v=19$") {
		t.Errorf("unexpected encoding %q", encoded)
	}

	ok, err := hasher.Verify("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("the original password must verify")
	}

	ok, err = hasher.Verify("wrong password", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Error("a wrong password must not verify")
	}
}

func TestHasherSaltsEveryHash(t *testing.T) {
	hasher, err := NewHasher(testArgon2Config())
	if err != nil {
		t.Fatal(err)
	}

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatal(err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ by salt")
	}
}

func TestHasherVerifiesOlderParameters(t *testing.T) {
	old, err := NewHasher(testArgon2Config())
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := old.Hash("longstanding password")
	if err != nil {
		t.Fatal(err)
	}

	// A hasher tuned differently must still verify the stored record
	// because the parameters are embedded in the encoding.
	tuned, err := NewHasher(DefaultArgon2Config())
	if err != nil {
		t.Fatal(err)
	}
	ok, err := tuned.Verify("longstanding password", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("records hashed under older parameters must keep verifying")
	}
}

func TestHasherVerifyRejectsMalformedInput(t *testing.T) {
	hasher, err := NewHasher(testArgon2Config())
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		encoded string
	}{
		{"wrong segment count", "argon2id$v=19$m=8192,t=1,p=1$onlyfour"},
		{"unknown variant", "bcrypt$v=19$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"},
		{"unsupported version", "argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"},
		{"garbage parameters", "argon2id$v=19$m=abc,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := hasher.Verify("password", tc.encoded); err == nil {
				t.Error("expected a decode failure")
			}
		})
	}
}

func TestHasherVerifyEmptyInputs(t *testing.T) {
	hasher, err := NewHasher(testArgon2Config())
	if err != nil {
		t.Fatal(err)
	}

	if ok, err := hasher.Verify("", "anything"); err != nil || ok {
		t.Errorf("empty password must fail cleanly, got ok=%v err=%v", ok, err)
	}
	if ok, err := hasher.Verify("password", ""); err != nil || ok {
		t.Errorf("empty hash must fail cleanly, got ok=%v err=%v", ok, err)
	}
}

func TestNewHasherRejectsWeakConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Argon2Config
	}{
		{"low memory", Argon2Config{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}},
		{"zero iterations", Argon2Config{Memory: 8192, Iterations: 0, Parallelism: 1, SaltLength: 8, KeyLength: 16}},
		{"zero parallelism", Argon2Config{Memory: 8192, Iterations: 1, Parallelism: 0, SaltLength: 8, KeyLength: 16}},
		{"short salt", Argon2Config{Memory: 8192, Iterations: 1, Parallelism: 1, SaltLength: 4, KeyLength: 16}},
		{"short key", Argon2Config{Memory: 8192, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewHasher(tc.cfg); err == nil {
				t.Error("expected a configuration error")
			}
		})
	}
}

func TestDefaultPasswordValidator(t *testing.T) {
	validator := DefaultPasswordValidator()

	if err := validator.Validate("Tr1cky&Long#Enough!"); err != nil {
		t.Errorf("a strong password must pass, got %v", err)
	}

	cases := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1!"},
		{"single class", "aaaaaaaaaaaaaa"},
		{"common password", "password123456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validator.Validate(tc.password); err == nil {
				t.Error("expected a policy violation")
			}
		})
	}
}
