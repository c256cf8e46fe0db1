package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	insureAuth "github.com/MrEthical07/insureAuth"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadFile(noEnvFile(t)); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	cfg, err := LoadFile(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "4000" || cfg.Addr() != ":4000" {
		t.Errorf("Port = %q, Addr = %q", cfg.Port, cfg.Addr())
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("JWTTTL = %v, want 24h", cfg.JWTTTL)
	}
	if cfg.OTPTTL != 120*time.Second {
		t.Errorf("OTPTTL = %v, want 120s", cfg.OTPTTL)
	}
	if cfg.CacheOpTimeout != 250*time.Millisecond {
		t.Errorf("CacheOpTimeout = %v", cfg.CacheOpTimeout)
	}
	if cfg.CORSOrigin != "http://localhost:5173" {
		t.Errorf("CORSOrigin = %q", cfg.CORSOrigin)
	}
	if !cfg.OTPReturnCode {
		t.Error("OTPReturnCode should default to true")
	}
	if cfg.RevocationFailOpen {
		t.Error("RevocationFailOpen should default to false")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("OTP_KEY_MODE", "email")
	t.Setenv("REVOCATION_FAIL_OPEN", "true")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := LoadFile(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Errorf("JWTTTL = %v", cfg.JWTTTL)
	}
	if cfg.OTPKeyMode != "email" || !cfg.RevocationFailOpen || cfg.BcryptCost != 12 {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file-secret-0123\nAPP_NAME=filed\nLOG_FORMAT=console\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "filed" || cfg.LogFormat != "console" {
		t.Errorf("unexpected config from file: %+v", cfg)
	}
	if cfg.JWTSecret != "from-file-secret-0123" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestLoad_RejectsReturnedOTPInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("APP_ENV", "production")

	if _, err := LoadFile(noEnvFile(t)); err == nil {
		t.Fatal("expected error with OTP_RETURN_CODE in production")
	}

	t.Setenv("OTP_RETURN_CODE", "false")
	t.Setenv("OTP_DELIVERY", "smtp")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "no-reply@example.com")
	cfg, err := LoadFile(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OTPDelivery != DeliverySMTP || cfg.SMTP().Port != "587" {
		t.Errorf("unexpected delivery settings: %+v", cfg.SMTP())
	}
}

func TestLoad_WithheldCodesNeedDelivery(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		ok   bool
	}{
		{"returned codes need no sender", map[string]string{}, true},
		{"withheld without sender", map[string]string{"OTP_RETURN_CODE": "false"}, false},
		{"withheld with console", map[string]string{"OTP_RETURN_CODE": "false", "OTP_DELIVERY": "Console"}, true},
		{"console in production", map[string]string{"OTP_RETURN_CODE": "false", "OTP_DELIVERY": "console", "APP_ENV": "production"}, false},
		{"smtp without host", map[string]string{"OTP_RETURN_CODE": "false", "OTP_DELIVERY": "smtp", "SMTP_FROM": "a@example.com"}, false},
		{"unknown delivery", map[string]string{"OTP_DELIVERY": "pigeon"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "0123456789abcdef0123")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadFile(noEnvFile(t))
			if tc.ok && err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_RejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("LOG_FORMAT", "xml")

	if _, err := LoadFile(noEnvFile(t)); err == nil {
		t.Fatal("expected error for LOG_FORMAT=xml")
	}
}

func TestEngineConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("JWT_TTL", "48h")
	t.Setenv("OTP_KEY_MODE", "EMAIL")
	t.Setenv("OTP_MAX_SENDS", "5")

	cfg, err := LoadFile(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ec := cfg.Engine()
	if err := ec.Validate(); err != nil {
		t.Fatalf("engine config invalid: %v", err)
	}
	if ec.JWT.TTL != 48*time.Hour || ec.Revocation.TTL != 48*time.Hour {
		t.Errorf("TTL mapping: jwt %v revocation %v", ec.JWT.TTL, ec.Revocation.TTL)
	}
	if ec.OTP.KeyMode != insureAuth.OTPKeyByEmail || ec.OTP.MaxSendsPerWindow != 5 {
		t.Errorf("OTP mapping: %+v", ec.OTP)
	}
	if string(ec.JWT.PrivateKey) != "0123456789abcdef0123" {
		t.Error("secret not mapped")
	}
}
