package utils

import "testing"

func TestGenerateSavingsAccountNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		num := GenerateSavingsAccountNumber()
		if !ValidateSavingsAccountNumber(num) {
			t.Fatalf("generated number %q does not match 3-6-5 format", num)
		}
		if num[:3] != "506" {
			t.Errorf("expected prefix 506, got %q", num[:3])
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("green-world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !CheckPassword("green-world", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
