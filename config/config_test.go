package config

import (
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := `
# primary database
[database]
url = postgres://app@localhost:5432/app

[pool]
min_conns = 2
max_conns = 10
test_before_acquire = true
acquire_timeout = 5s

[twophase]
orders = postgres://app@pg1:5432/orders
billing = mysql://app@my1:3306/billing
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://app@localhost:5432/app" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.Pool.MinConns != 2 || cfg.Pool.MaxConns != 10 {
		t.Errorf("pool conns = %d/%d", cfg.Pool.MinConns, cfg.Pool.MaxConns)
	}
	if !cfg.Pool.TestBeforeAcquire {
		t.Error("TestBeforeAcquire not set")
	}
	if cfg.Pool.AcquireTimeout != 5*time.Second {
		t.Errorf("AcquireTimeout = %v", cfg.Pool.AcquireTimeout)
	}
	if len(cfg.Participants) != 2 {
		t.Fatalf("got %d participants", len(cfg.Participants))
	}
	// Section order is preserved.
	if cfg.Participants[0].Name != "orders" || cfg.Participants[1].Name != "billing" {
		t.Errorf("participants = %v", cfg.Participants)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bare line", "[database]\nnot a pair"},
		{"unknown key", "[database]\nhost = localhost"},
		{"bad int", "[pool]\nmax_conns = many"},
		{"bad bool", "[pool]\ntest_before_acquire = yep"},
		{"bad duration", "[pool]\nacquire_timeout = fast"},
		{"unknown section key", "[cache]\nttl = 30s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestParseIgnoresCommentsAndCase(t *testing.T) {
	input := "; leading comment\n[DATABASE]\nURL = sqlite:app.db\n"
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "sqlite:app.db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}
