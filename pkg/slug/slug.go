// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug folds display names into the ASCII handles stored as usernames,
// so "Élodie Norris" and "elodie-norris" sign in as the same account.
package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From folds s into a lowercase ASCII handle.
//
// Accents are stripped, every run of characters that is not an ASCII letter
// or digit becomes a single hyphen, and the result never starts or ends with
// a hyphen. A name written only in letters without an ASCII base form folds
// to "".
func From(s string) string {
	// A transform chain keeps state, so each call gets its own
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var handle strings.Builder
	handle.Grow(len(folded))

	separate := false
	for _, r := range strings.ToLower(folded) {
		if r >= utf8.RuneSelf || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			separate = true
			continue
		}
		if separate && handle.Len() > 0 {
			handle.WriteByte('-')
		}
		separate = false
		handle.WriteRune(r)
	}

	return handle.String()
}
