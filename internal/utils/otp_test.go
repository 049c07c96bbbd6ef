package utils

import "testing"

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if len(code) != 6 {
			t.Errorf("code %q: want 6 digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Errorf("code %q: non-digit %q", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("expected varied codes across 50 draws")
	}
}

func TestHashRefreshRawStable(t *testing.T) {
	a := HashRefreshRaw("token-a")
	if a != HashRefreshRaw("token-a") {
		t.Error("hash not deterministic")
	}
	if a == HashRefreshRaw("token-b") {
		t.Error("distinct tokens hashed equal")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}
