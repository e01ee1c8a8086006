package core

import (
	"errors"
	"testing"
)

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		wantErr error
	}{
		{
			name: "valid profile",
			profile: &Profile{
				Id:     1,
				Name:   "Ada",
				Branch: "Engineering",
				Role:   "Compiler Lead",
				About:  "Interested in analytical engines and punched cards",
			},
			wantErr: nil,
		},
		{
			name: "valid profile without photo",
			profile: &Profile{
				Id:       2,
				Name:     "Brin",
				Branch:   "Research",
				Role:     "Archivist",
				About:    "Catalogues everything twice",
				PhotoRef: "",
			},
			wantErr: nil,
		},
		{
			name:    "nil profile",
			profile: nil,
			wantErr: ErrInvalidProfile,
		},
		{
			name: "zero id",
			profile: &Profile{
				Name:   "Ada",
				Branch: "Engineering",
				Role:   "Compiler Lead",
				About:  "Interested in analytical engines",
			},
			wantErr: ErrInvalidID,
		},
		{
			name: "name too short",
			profile: &Profile{
				Id:     1,
				Name:   "A",
				Branch: "Engineering",
				Role:   "Compiler Lead",
				About:  "Interested in analytical engines",
			},
			wantErr: ErrNameTooShort,
		},
		{
			name: "whitespace-only name",
			profile: &Profile{
				Id:     1,
				Name:   "   ",
				Branch: "Engineering",
				Role:   "Compiler Lead",
				About:  "Interested in analytical engines",
			},
			wantErr: ErrNameTooShort,
		},
		{
			name: "branch too short",
			profile: &Profile{
				Id:     1,
				Name:   "Ada",
				Branch: "E",
				Role:   "Compiler Lead",
				About:  "Interested in analytical engines",
			},
			wantErr: ErrBranchTooShort,
		},
		{
			name: "role too short",
			profile: &Profile{
				Id:     1,
				Name:   "Ada",
				Branch: "Engineering",
				Role:   "C",
				About:  "Interested in analytical engines",
			},
			wantErr: ErrRoleTooShort,
		},
		{
			name: "about too short",
			profile: &Profile{
				Id:     1,
				Name:   "Ada",
				Branch: "Engineering",
				Role:   "Compiler Lead",
				About:  "short",
			},
			wantErr: ErrAboutTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile(tt.profile)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateProfile() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateProfile() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("ValidateProfile() error = %v, want wrapped ErrInvalidProfile", err)
			}
		})
	}
}

func TestFieldValidators_RuneCounting(t *testing.T) {
	// Two multi-byte runes must pass the minimum-length checks.
	if err := ValidateName("Ян"); err != nil {
		t.Errorf("ValidateName(cyrillic) = %v, want nil", err)
	}
	if err := ValidateBranch("ИТ"); err != nil {
		t.Errorf("ValidateBranch(cyrillic) = %v, want nil", err)
	}
	if err := ValidateAbout("Люблю Go и шахматы"); err != nil {
		t.Errorf("ValidateAbout(cyrillic) = %v, want nil", err)
	}
}
