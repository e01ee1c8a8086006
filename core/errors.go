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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProfile indicates a Profile failed validation.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrInvalidID indicates a zero or otherwise unusable identity.
	ErrInvalidID = errors.New("invalid user id")

	// ErrNameTooShort indicates the Name field is missing or too short.
	ErrNameTooShort = errors.New("name must be at least 2 characters")

	// ErrBranchTooShort indicates the Branch field is missing or too short.
	ErrBranchTooShort = errors.New("branch must be at least 2 characters")

	// ErrRoleTooShort indicates the Role field is missing or too short.
	ErrRoleTooShort = errors.New("role must be at least 2 characters")

	// ErrAboutTooShort indicates the About field is missing or too short.
	ErrAboutTooShort = errors.New("about must be at least 10 characters")

	// ErrSelfInterest indicates an interest edge from a user to themself.
	ErrSelfInterest = errors.New("cannot record interest in yourself")
)
