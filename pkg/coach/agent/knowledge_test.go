package agent

import (
	"reflect"
	"testing"
)

func TestMergeSources(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want []string
	}{
		{
			name: "dedup case insensitive keeps first casing",
			a:    []string{"career-guides/star-method", "Resume Basics"},
			b:    []string{"resume basics", "career-guides/negotiation"},
			want: []string{"career-guides/star-method", "Resume Basics", "career-guides/negotiation"},
		},
		{
			name: "blank entries dropped",
			a:    []string{"", "  ", "guide"},
			b:    nil,
			want: []string{"guide"},
		},
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeSources(tt.a, tt.b)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeSources = %v, want %v", got, tt.want)
			}
		})
	}
}
