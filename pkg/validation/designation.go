// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation for user-supplied values.
//
// This package validates alloy and temper designations arriving from the
// browser before they are used in selection lookups or echoed into
// responses. Designations follow industrial naming (e.g. "A5052", "H32",
// "T651", "O"): short uppercase alphanumeric codes.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// designationPattern matches alloy and temper designations.
// Allows: uppercase letters and digits, 1-10 characters.
// Covers JIS/AA alloy codes ("A5052", "7075") and tempers ("H32", "T651", "O").
var designationPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ValidateDesignation validates an alloy or temper designation.
//
// Valid designations:
//   - 1-10 characters
//   - Uppercase letters A-Z
//   - Digits 0-9
//
// Returns an error if the designation is invalid.
func ValidateDesignation(d string) error {
	if d == "" {
		return fmt.Errorf("designation cannot be empty")
	}
	if !designationPattern.MatchString(d) {
		return fmt.Errorf("invalid designation format: %q (must be 1-10 uppercase alphanumeric chars)", d)
	}
	return nil
}

// SanitizeDesignation normalizes and validates a designation.
// Returns the uppercase designation if valid, or an error if invalid.
//
// Use this on user input before selection lookups:
//
//	safe, err := validation.SanitizeDesignation(req.Alloy)
//	if err != nil {
//	    return err
//	}
func SanitizeDesignation(d string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(d))
	if err := ValidateDesignation(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
