// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/dashboard/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "norris", "norris"},
		{"mixed_case_and_spaces", "  John  Norris ", "john-norris"},
		{"accents", "Élodie Brontë", "elodie-bronte"},
		{"punctuation_runs", "ops--team!!2026", "ops-team-2026"},
		{"already_folded", "elodie-norris", "elodie-norris"},
		{"non_latin_only", "Иван", ""},
		{"non_latin_separator", "ana Иван bo", "ana-bo"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
