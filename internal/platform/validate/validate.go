// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate checks submitted form values and reports every failing
// field in one [apperr.AppError], so a form can be re-rendered with all of
// its problems at once.
//
// Each field reports only its first failed rule: an empty username is
// "required", not also "too short".
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
)

// Validator accumulates field failures across a chain of rules. The zero
// value is ready to use; it is not safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails on a value that is empty after trimming.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) == "", "This field is required")
}

// MaxLen fails when value has more than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// MinLen fails when value has fewer than min characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

// Email accepts a bare address only; "Norris <n@example.com>" fails.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(field, err != nil || address.Address != value, "Must be a valid email address")
}

// Custom fails with message when failed is true.
//
//	v.Custom("terms", !accepted, "You must accept the terms")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, failed, message)
}

// Err returns a VALIDATION_ERROR carrying every failed field, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) check(field string, failed bool, message string) *Validator {
	if failed && !v.failed(field) {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

func (v *Validator) failed(field string) bool {
	for _, fieldError := range v.errs {
		if fieldError.Field == field {
			return true
		}
	}
	return false
}
