package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// Algorithm Registry Tests
// =============================================================================

func TestU_GetAlgorithmInfo(t *testing.T) {
	tests := []struct {
		name      string
		alg       AlgorithmID
		label     string
		standard  string
		publicKey int
		secretKey int
	}{
		{"[Unit] GetAlgorithmInfo: ML-KEM-768", AlgMLKEM768, "ML-KEM-768", "FIPS 203", 1184, 2400},
		{"[Unit] GetAlgorithmInfo: ML-DSA-65", AlgMLDSA65, "ML-DSA-65", "FIPS 204", 1952, 4032},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := GetAlgorithmInfo(tt.alg)
			if err != nil {
				t.Fatalf("GetAlgorithmInfo() error = %v", err)
			}
			if info.Algorithm != tt.label {
				t.Errorf("Algorithm = %s, want %s", info.Algorithm, tt.label)
			}
			if info.Standard != tt.standard {
				t.Errorf("Standard = %s, want %s", info.Standard, tt.standard)
			}
			if info.SecurityLevel != "Level 3 (192-bit post-quantum)" {
				t.Errorf("SecurityLevel = %s", info.SecurityLevel)
			}
			if info.PublicKeySize != tt.publicKey || info.SecretKeySize != tt.secretKey {
				t.Errorf("sizes = %d/%d, want %d/%d", info.PublicKeySize, info.SecretKeySize, tt.publicKey, tt.secretKey)
			}
		})
	}
}

func TestU_GetAlgorithmInfo_KEMSizes(t *testing.T) {
	info, err := GetAlgorithmInfo(AlgMLKEM768)
	if err != nil {
		t.Fatal(err)
	}
	if info.CiphertextSize != 1088 {
		t.Errorf("CiphertextSize = %d, want 1088", info.CiphertextSize)
	}
	if info.SharedSecretSize != 32 {
		t.Errorf("SharedSecretSize = %d, want 32", info.SharedSecretSize)
	}
	if info.SignatureSize != 0 {
		t.Errorf("SignatureSize = %d, want 0", info.SignatureSize)
	}
	if info.OID != "2.16.840.1.101.3.4.4.2" {
		t.Errorf("OID = %s", info.OID)
	}
}

func TestU_GetAlgorithmInfo_Unknown(t *testing.T) {
	if _, err := GetAlgorithmInfo("rsa-2048"); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestU_ParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    AlgorithmID
		wantErr bool
	}{
		{"ml-kem-768", AlgMLKEM768, false},
		{"ML-KEM-768", AlgMLKEM768, false},
		{"ml-dsa-65", AlgMLDSA65, false},
		{"ML-DSA-65", AlgMLDSA65, false},
		{"ml-kem-512", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run("[Unit] ParseAlgorithm: "+tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestU_AlgorithmID_Type(t *testing.T) {
	if !AlgMLKEM768.IsKEM() || AlgMLKEM768.IsSignature() {
		t.Error("ml-kem-768 should be a KEM")
	}
	if !AlgMLDSA65.IsSignature() || AlgMLDSA65.IsKEM() {
		t.Error("ml-dsa-65 should be a signature algorithm")
	}
	if AlgorithmID("nope").Type() != TypeUnknown {
		t.Error("unknown algorithm should have TypeUnknown")
	}
	if TypePQCKEM.String() != "kem" || TypePQCSignature.String() != "signature" {
		t.Error("unexpected AlgorithmType strings")
	}
}

func TestU_Algorithms_Sorted(t *testing.T) {
	all := Algorithms()
	if len(all) != 2 {
		t.Fatalf("len(Algorithms()) = %d, want 2", len(all))
	}
	if all[0].ID != AlgMLDSA65 || all[1].ID != AlgMLKEM768 {
		t.Errorf("unexpected order: %s, %s", all[0].ID, all[1].ID)
	}
}

// =============================================================================
// Error Taxonomy Tests
// =============================================================================

func TestU_Errors_LengthErrorsAreInvalidInput(t *testing.T) {
	for _, err := range []error{
		ErrInvalidKeyLength,
		ErrInvalidCiphertextLength,
		ErrInvalidSignatureLength,
		ErrInvalidSeedLength,
	} {
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%v should wrap ErrInvalidInput", err)
		}
	}

	for _, err := range []error{ErrInvalidKeyEncoding, ErrInvalidCiphertextEncoding, ErrEntropy, ErrDecapsulation, ErrSigning} {
		if IsInvalidInput(err) {
			t.Errorf("%v should not be an input length error", err)
		}
	}
}

func TestU_LengthError_Message(t *testing.T) {
	err := LengthError(ErrInvalidKeyLength, "public key", 1184, 1183)
	if !errors.Is(err, ErrInvalidKeyLength) || !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("LengthError lost its sentinel: %v", err)
	}
	if !strings.Contains(err.Error(), "expected 1184, got 1183") {
		t.Errorf("message = %q", err.Error())
	}
}

// =============================================================================
// SecureRandom Tests
// =============================================================================

func TestU_SecureRandom_Fills(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	if err := SecureRandom(a); err != nil {
		t.Fatal(err)
	}
	if err := SecureRandom(b); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("two draws returned identical bytes")
	}
}

func TestU_SecureRandom_Failure(t *testing.T) {
	restore := SetRandReaderForTesting(FailingReader{})
	defer restore()

	buf := bytes.Repeat([]byte{0xAA}, 32)
	err := SecureRandom(buf)
	if !errors.Is(err, ErrEntropy) {
		t.Fatalf("expected ErrEntropy, got %v", err)
	}
	if !bytes.Equal(buf, make([]byte, 32)) {
		t.Error("buffer should be zeroed on failure")
	}
}

func TestU_SecureRandom_ShortRead(t *testing.T) {
	restore := SetRandReaderForTesting(bytes.NewReader(make([]byte, 10)))
	defer restore()

	if _, err := NewSeed(); !errors.Is(err, ErrEntropy) {
		t.Fatalf("expected ErrEntropy on short read, got %v", err)
	}
}

func TestU_SetRandReaderForTesting_Restore(t *testing.T) {
	fixed := bytes.Repeat([]byte{7}, 32)
	restore := SetRandReaderForTesting(bytes.NewReader(fixed))
	seed, err := NewSeed()
	restore()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(seed[:], fixed) {
		t.Error("seed should come from the injected reader")
	}

	if _, err := NewSeed(); err != nil {
		t.Errorf("restored reader failed: %v", err)
	}
}
