package token

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/kopofin/hanabank/internal/models"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestDecodePhone(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{
			name:  "group customer token",
			token: b64("GCT_01012345678_KIMHANA_001"),
			want:  "01012345678",
		},
		{
			name:  "customer info token",
			token: b64("CI_01012345678_55821_UNIFIED"),
			want:  "01012345678",
		},
		{
			name:  "dashed phone inside token segment",
			token: b64("GCT_010-1234-5678_KIMHANA_001"),
			want:  "01012345678",
		},
		{
			name:  "bare dashed phone",
			token: b64("010-9999-9999"),
			want:  "01099999999",
		},
		{
			name:  "unencoded token falls back to raw text",
			token: "GCT_01055556666_KIMHANA_001",
			want:  "01055556666",
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
		{
			name:    "no underscore and not a phone",
			token:   b64("hello world"),
			wantErr: true,
		},
		{
			name:    "underscore but empty phone segment",
			token:   b64("GCT__KIMHANA"),
			wantErr: true,
		},
		{
			name:    "not base64 and not a recognizable shape",
			token:   "!!not-a-token!!",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePhone(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, models.ErrTokenFormat) {
					t.Errorf("expected ErrTokenFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncodeGroupTokenRoundTrip(t *testing.T) {
	for _, phone := range []string{"01012345678", "010-1234-5678"} {
		tok := EncodeGroupToken(phone)
		got, err := DecodePhone(tok)
		if err != nil {
			t.Fatalf("round trip failed for %q: %v", phone, err)
		}
		if want := NormalizePhone(phone); got != want {
			t.Errorf("round trip for %q: expected %q, got %q", phone, want, got)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone(" 010-1234-5678 "); got != "01012345678" {
		t.Errorf("expected 01012345678, got %q", got)
	}
}
