package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"meets policy", "Password123", true},
		{"missing uppercase", "password123", false},
		{"missing lowercase", "PASSWORD123", false},
		{"missing digit", "Password", false},
		{"too short", "Pass1", false},
		{"empty", "", false},
		{"exactly 8 characters", "Passwd12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPassword(tt.password))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"plain address", "user@example.com", true},
		{"subdomain", "user@mail.example.co", true},
		{"missing at", "userexample.com", false},
		{"missing domain", "user@", false},
		{"missing tld", "user@example", false},
		{"contains space", "us er@example.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsValidResetToken(t *testing.T) {
	token, _ := GenerateToken()
	assert.True(t, IsValidResetToken(token))
	assert.False(t, IsValidResetToken("not-a-token"))
	assert.False(t, IsValidResetToken(""))
	assert.False(t, IsValidResetToken(token[:32]))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}
