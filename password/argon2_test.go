package password

import (
	"strings"
	"testing"
)

func fastConfig() Config {
	return Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2HashAndVerify(t *testing.T) {
	hasher, err := NewArgon2(fastConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected hash prefix: %s", hash)
	}
	if !hasher.Verify("password1", hash) {
		t.Fatal("expected matching secret to verify")
	}
	if hasher.Verify("password2", hash) {
		t.Fatal("expected different secret to fail")
	}
}

func TestArgon2HashIsSalted(t *testing.T) {
	hasher, err := NewArgon2(fastConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	a, _ := hasher.Hash("password1")
	b, _ := hasher.Hash("password1")
	if a == b {
		t.Fatal("expected distinct hashes for the same secret")
	}
}

func TestArgon2RejectsShortSecret(t *testing.T) {
	hasher, err := NewArgon2(fastConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	if _, err := hasher.Hash("short"); err != ErrSecretTooShort {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}
	if _, err := hasher.Hash("12345678"); err != nil {
		t.Fatalf("expected 8 byte secret to be accepted: %v", err)
	}
}

func TestArgon2VerifyMalformedNeverMatches(t *testing.T) {
	hasher, err := NewArgon2(fastConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	cases := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=8192,t=1$abc$def",
		strings.Replace(hash, "$v=19$", "$v=18$", 1),
		strings.Replace(hash, "m=8192,t=1,p=1", "m=8192,m=8192,p=1", 1),
		hash[:len(hash)-4] + "!!!!",
	}
	for _, c := range cases {
		if hasher.Verify("password1", c) {
			t.Fatalf("expected malformed hash %q to fail", c)
		}
	}
}

func TestArgon2NeedsUpgrade(t *testing.T) {
	weak, err := NewArgon2(fastConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	hash, err := weak.Hash("password1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	same, err := weak.NeedsUpgrade(hash)
	if err != nil || same {
		t.Fatalf("expected no upgrade for identical params: upgrade=%v err=%v", same, err)
	}

	strongCfg := fastConfig()
	strongCfg.Time = 2
	strong, err := NewArgon2(strongCfg)
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	upgrade, err := strong.NeedsUpgrade(hash)
	if err != nil || !upgrade {
		t.Fatalf("expected upgrade for stronger params: upgrade=%v err=%v", upgrade, err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := fastConfig()
	cfg.Memory = 1024
	if _, err := NewArgon2(cfg); err == nil {
		t.Fatal("expected low memory to be rejected")
	}

	cfg = fastConfig()
	cfg.SaltLength = 8
	if _, err := NewArgon2(cfg); err == nil {
		t.Fatal("expected short salt to be rejected")
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
