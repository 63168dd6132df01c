package promo

import (
	"reflect"
	"testing"
)

func TestSplitClauses(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single clause",
			text: "Buy 2 Get 1 Free",
			want: []string{"buy 2 get 1 free"},
		},
		{
			name: "semicolon separator",
			text: "buy 2 get 1 free; $10 for 2",
			want: []string{"buy 2 get 1 free", "$10 for 2"},
		},
		{
			name: "slash separator",
			text: "$10 for 2/2nd item 50%",
			want: []string{"$10 for 2", "2nd item 50%"},
		},
		{
			name: "week tag stripped",
			text: "wk12 buy 2 save $4",
			want: []string{"buy 2 save $4"},
		},
		{
			name: "half price rewritten",
			text: "2nd item half price",
			want: []string{"2nd item 50%"},
		},
		{
			name: "second rewritten",
			text: "second item half price",
			want: []string{"2nd item 50%"},
		},
		{
			name: "abbreviation boundary splits",
			text: "save $4 p.c extra",
			want: []string{"save $4", "extra"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitClauses(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitClauses(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTagPattern(t *testing.T) {
	tests := []struct {
		clause string
		want   string
	}{
		{"$10 for 2", "<AMT> for <CNT>"},
		{"$10.5 off 20% for 3", "<AMT> off <PCT> for <CNT>"},
		{"2nd item 50%", "<CNT>nd item <PCT>"},
		{"buy 2 get 1 free", "buy <CNT> get <CNT> free"},
		{"buy 2 save $4", "buy <CNT> save <AMT>"},
		{"no digits here", "no digits here"},
	}

	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			if got := TagPattern(tt.clause); got != tt.want {
				t.Errorf("TagPattern(%q) = %q, want %q", tt.clause, got, tt.want)
			}
		})
	}
}
