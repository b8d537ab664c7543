package config

import (
	"errors"
	"testing"
)

func TestParsePolicyInputs(t *testing.T) {
	tests := []struct {
		name     string
		age      string
		size     string
		wantAge  float64
		wantSize float64
		wantErr  error
	}{
		{name: "valid", age: "30", size: "100", wantAge: 30, wantSize: 100},
		{name: "surrounding spaces", age: " 7 ", size: "1", wantAge: 7, wantSize: 1},
		{name: "non-numeric age", age: "thirty", size: "100", wantErr: ErrInvalidNumber},
		{name: "decimal size", age: "30", size: "1.5", wantErr: ErrInvalidNumber},
		{name: "zero age", age: "0", size: "100", wantErr: ErrInvalidNumber},
		{name: "negative size", age: "30", size: "-5", wantErr: ErrInvalidNumber},
		{name: "empty", age: "", size: "100", wantErr: ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePolicyInputs(tt.age, tt.size)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParsePolicyInputs() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePolicyInputs() error = %v", err)
			}
			if p.MaxAgeDays != tt.wantAge || p.MaxSizeMB != tt.wantSize {
				t.Errorf("ParsePolicyInputs() = %+v, want age %v size %v", p, tt.wantAge, tt.wantSize)
			}
		})
	}
}

func TestParsePositiveInt_MessageNamesField(t *testing.T) {
	_, err := ParsePositiveInt("max age (days)", "abc")
	if err == nil || err.Error() != `max age (days) "abc" must be a positive whole number` {
		t.Errorf("ParsePositiveInt() error = %v", err)
	}
}
