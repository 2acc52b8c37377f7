package render

import "testing"

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		in      string
		want    PageSize
		wantErr bool
	}{
		{"A4", A4, false},
		{"a4", A4, false},
		{" letter ", Letter, false},
		{"LETTER", Letter, false},
		{"A3", PageSize{}, true},
		{"", PageSize{}, true},
	}
	for _, tt := range tests {
		got, err := ParsePageSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePageSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePageSize(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	page := Rect{X: 36, Y: 36, W: 100, H: 100}
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", Rect{X: 40, Y: 40, W: 10, H: 10}, true},
		{"same", page, true},
		{"within eps", Rect{X: 35.9995, Y: 36, W: 10, H: 10}, true},
		{"left overflow", Rect{X: 30, Y: 40, W: 10, H: 10}, false},
		{"top overflow", Rect{X: 40, Y: 130, W: 10, H: 10}, false},
	}
	for _, tt := range tests {
		if got := page.Contains(tt.r, 1e-3); got != tt.want {
			t.Errorf("%s: Contains = %v, want %v", tt.name, got, tt.want)
		}
	}
}
