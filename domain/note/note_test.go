package note

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		note    Note
		wantErr error
	}{
		{"valid", Note{Title: "Launch checklist", Body: "do the things"}, nil},
		{"empty body ok", Note{Title: "t"}, nil},
		{"blank title", Note{Title: "   "}, ErrTitleRequired},
		{"missing title", Note{Body: "orphan"}, ErrTitleRequired},
		{"title too long", Note{Title: strings.Repeat("x", MaxTitleLen+1)}, ErrTitleTooLong},
		{"title at limit", Note{Title: strings.Repeat("x", MaxTitleLen)}, nil},
		{"body too long", Note{Title: "t", Body: strings.Repeat("y", MaxBodyLen+1)}, ErrBodyTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.note)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
