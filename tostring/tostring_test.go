package tostring

import (
	"testing"
	"time"
)

type status int8

type level int

func (l level) String() string { return "level-" + ToString(int(l)).String }

func TestToString(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	var nilPtr *int
	n := 7
	tests := []struct {
		name   string
		in     any
		want   string
		isNULL bool
	}{
		{"nil", nil, "", true},
		{"string", "abc", "abc", false},
		{"bytes", []byte("raw"), "raw", false},
		{"bool", true, "true", false},
		{"int", 42, "42", false},
		{"int8", int8(-3), "-3", false},
		{"uint16", uint16(9), "9", false},
		{"float", 3.25, "3.25", false},
		{"named int", status(4), "4", false},
		{"stringer", level(2), "level-2", false},
		{"time", now, now.Format(time.RFC3339Nano), false},
		{"zero time", time.Time{}, "", true},
		{"nil pointer", nilPtr, "", true},
		{"pointer", &n, "7", false},
		{"empty slice", []int{}, "", true},
		{"map", map[string]int{"a": 1}, `{"a":1}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToString(tt.in)
			if got.String != tt.want || got.IsNULL != tt.isNULL {
				t.Errorf("ToString(%#v) = %+v, want {%q %v}", tt.in, got, tt.want, tt.isNULL)
			}
		})
	}
}

func TestCell(t *testing.T) {
	now := time.Now()
	n := 5
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", 3, int64(3)},
		{"uint8", uint8(3), uint64(3)},
		{"float32", float32(1.5), float64(1.5)},
		{"bytes", []byte("x"), "x"},
		{"named int", status(2), int64(2)},
		{"stringer keeps text", level(1), "level-1"},
		{"pointer", &n, int64(5)},
		{"zero time", time.Time{}, nil},
		{"slice", []int{1, 2}, "[1,2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cell(tt.in); got != tt.want {
				t.Errorf("Cell(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
	if got := Cell(now); got != now {
		t.Errorf("Cell(time) = %v, want %v", got, now)
	}
}
