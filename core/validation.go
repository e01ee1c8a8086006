// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Minimum field lengths, in runes, applied after trimming whitespace.
const (
	MinNameLen   = 2
	MinBranchLen = 2
	MinRoleLen   = 2
	MinAboutLen  = 10
)

// ValidateProfile validates a Profile according to domain rules.
//
// Validation rules:
//   - Id must be non-zero
//   - Name, Branch, Role must be at least 2 characters after trimming
//   - About must be at least 10 characters after trimming
//
// NOT validated:
//   - PhotoRef (optional, opaque platform handle)
//   - CreatedAt (populated by the store on first insert)
func ValidateProfile(profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	if profile.Id == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrInvalidID)
	}

	if err := ValidateName(profile.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	if err := ValidateBranch(profile.Branch); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	if err := ValidateRole(profile.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	if err := ValidateAbout(profile.About); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	return nil
}

// ValidateName checks the Name field in isolation.
// Field-level validators exist so form flows can gate each step separately.
func ValidateName(name string) error {
	if trimmedLen(name) < MinNameLen {
		return ErrNameTooShort
	}
	return nil
}

// ValidateBranch checks the Branch field in isolation.
func ValidateBranch(branch string) error {
	if trimmedLen(branch) < MinBranchLen {
		return ErrBranchTooShort
	}
	return nil
}

// ValidateRole checks the Role field in isolation.
func ValidateRole(role string) error {
	if trimmedLen(role) < MinRoleLen {
		return ErrRoleTooShort
	}
	return nil
}

// ValidateAbout checks the About field in isolation.
func ValidateAbout(about string) error {
	if trimmedLen(about) < MinAboutLen {
		return ErrAboutTooShort
	}
	return nil
}

func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
