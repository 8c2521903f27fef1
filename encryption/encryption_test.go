package encryption

import (
	"bytes"
	"errors"
	"testing"
)

var algorithms = []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20}

func TestNew(t *testing.T) {
	for _, alg := range algorithms {
		enc, err := New("test-key-123", WithAlgorithm(alg))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if enc.Algorithm() != alg {
			t.Errorf("expected %s, got %s", alg, enc.Algorithm())
		}
	}

	enc, err := New("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc.Algorithm() != AlgorithmAESGCM {
		t.Errorf("expected AES-GCM default, got %s", enc.Algorithm())
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := New("k", WithAlgorithm("rot13")); err == nil {
		t.Error("expected error for unknown algorithm")
	}
	if _, err := NewAESGCM([]byte("short")); err == nil {
		t.Error("expected error for invalid AES key length")
	}
	if _, err := NewChaCha20(make([]byte, 16)); err == nil {
		t.Error("expected error for invalid ChaCha20 key length")
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"session json", []byte(`{"accessToken":"a","refreshToken":"r","expiresAt":"2026-01-01T00:00:00Z"}`)},
		{"empty", []byte{}},
		{"binary", []byte{0, 1, 2, 255}},
	}

	for _, alg := range algorithms {
		enc, err := New("my-secret-key", WithAlgorithm(alg))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, tc := range tests {
			t.Run(string(alg)+"/"+tc.name, func(t *testing.T) {
				sealed, err := enc.Seal(tc.plaintext, []byte("tokenId"))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(tc.plaintext) > 0 && bytes.Contains(sealed, tc.plaintext) {
					t.Error("sealed record should not contain the plaintext")
				}
				opened, err := enc.Open(sealed, []byte("tokenId"))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !bytes.Equal(opened, tc.plaintext) {
					t.Errorf("expected %q, got %q", tc.plaintext, opened)
				}
			})
		}
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	enc, _ := New("my-key")
	a, _ := enc.Seal([]byte("same input"), nil)
	b, _ := enc.Seal([]byte("same input"), nil)
	if bytes.Equal(a, b) {
		t.Error("sealing twice should produce different records")
	}
}

func TestOpenFailures(t *testing.T) {
	for _, alg := range algorithms {
		t.Run(string(alg), func(t *testing.T) {
			enc, _ := New("key-one", WithAlgorithm(alg))
			other, _ := New("key-two", WithAlgorithm(alg))

			sealed, err := enc.Seal([]byte("secret"), []byte("tokenId"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := other.Open(sealed, []byte("tokenId")); err == nil {
				t.Error("expected failure with wrong key")
			}
			if _, err := enc.Open(sealed, []byte("otherId")); err == nil {
				t.Error("expected failure with different additional data")
			}
			tampered := bytes.Clone(sealed)
			tampered[len(tampered)-1] ^= 0xff
			if _, err := enc.Open(tampered, []byte("tokenId")); err == nil {
				t.Error("expected failure for tampered record")
			}
			if _, err := enc.Open([]byte("a"), nil); !errors.Is(err, ErrCiphertextTooShort) {
				t.Errorf("expected ErrCiphertextTooShort, got %v", err)
			}
		})
	}
}
