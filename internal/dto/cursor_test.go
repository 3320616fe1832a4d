package dto

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/google/uuid"
)

func TestEncodeArticleCursor(t *testing.T) {
	tests := []struct {
		name        string
		article     domain.Article
		wantErr     bool
		errContains string
	}{
		{
			name: "valid cursor",
			article: domain.Article{
				ID:        uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
				CreatedAt: time.Date(2026, 5, 9, 10, 0, 0, 0, time.UTC),
			},
		},
		{
			name:        "nil id",
			article:     domain.Article{CreatedAt: time.Now()},
			wantErr:     true,
			errContains: "cannot be nil",
		},
		{
			name:    "zero time",
			article: domain.Article{ID: uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeArticleCursor(tt.article)
			if (err != nil) != tt.wantErr {
				t.Errorf("EncodeArticleCursor() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("EncodeArticleCursor() error = %v, should contain %v", err, tt.errContains)
			}
			if !tt.wantErr && strings.ContainsAny(encoded, "+/=") {
				t.Errorf("EncodeArticleCursor() = %q, want url safe unpadded token", encoded)
			}
		})
	}
}

func TestDecodeArticleCursor(t *testing.T) {
	valid, _ := EncodeArticleCursor(domain.Article{ID: uuid.New(), CreatedAt: time.Now()})
	nilID := base64.RawURLEncoding.EncodeToString([]byte(`{"t":"2026-05-09T10:00:00Z","i":"00000000-0000-0000-0000-000000000000"}`))

	tests := []struct {
		name        string
		encoded     string
		wantErr     bool
		errContains string
		wantNil     bool
	}{
		{name: "valid cursor", encoded: valid},
		{name: "empty string returns nil", encoded: "", wantNil: true},
		{name: "invalid base64", encoded: "not-valid-base64!!!", wantErr: true, errContains: "decode cursor"},
		{name: "invalid JSON", encoded: "aW52YWxpZC1qc29u", wantErr: true, errContains: "unmarshal cursor"},
		{name: "nil id", encoded: nilID, wantErr: true, errContains: "id cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := DecodeArticleCursor(tt.encoded)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeArticleCursor() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("DecodeArticleCursor() error = %v, should contain %v", err, tt.errContains)
			}
			if tt.wantNil && pos != nil {
				t.Error("DecodeArticleCursor() should return nil for empty string")
			}
			if !tt.wantErr && !tt.wantNil && pos == nil {
				t.Error("DecodeArticleCursor() returned nil for valid input")
			}
		})
	}
}

func TestArticleCursorRoundtrip(t *testing.T) {
	a := domain.Article{
		ID:        uuid.MustParse("987fcdeb-51a2-43d7-b890-123456789abc"),
		CreatedAt: time.Date(2026, 5, 9, 10, 30, 15, 123456000, time.FixedZone("CET", 3600)),
	}

	encoded, err := EncodeArticleCursor(a)
	if err != nil {
		t.Fatalf("EncodeArticleCursor() failed: %v", err)
	}

	pos, err := DecodeArticleCursor(encoded)
	if err != nil {
		t.Fatalf("DecodeArticleCursor() failed: %v", err)
	}

	if !pos.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", pos.CreatedAt, a.CreatedAt)
	}
	if pos.ID != a.ID {
		t.Errorf("ID mismatch: got %v, want %v", pos.ID, a.ID)
	}
}
