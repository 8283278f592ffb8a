package entity

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"BYLAYER", ByLayer, false},
		{"bylayer", ByLayer, false},
		{"red", Color("#ff0000"), false},
		{"lightgray", Color("#c0c0c0"), false},
		{"#00ff00", Color("#00ff00"), false},
		{"#ABCDEF", Color("#abcdef"), false},
		{"not-a-color", "", true},
		{"#12", "", true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNearestACI(t *testing.T) {
	tests := []struct {
		color Color
		want  int
	}{
		{Color("#ff0000"), 1},
		{Color("#fe0101"), 1}, // almost red quantizes to red
		{Color("#ffff00"), 2},
		{Color("#0000ff"), 5},
		{Color("#111111"), 0}, // near black
		{ByLayer, ACIByLayer},
	}

	for _, tt := range tests {
		if got := NearestACI(tt.color); got != tt.want {
			t.Errorf("NearestACI(%q) = %d, want %d", tt.color, got, tt.want)
		}
	}
}

func TestFromACI(t *testing.T) {
	if got := FromACI(1); got != Color("#ff0000") {
		t.Errorf("FromACI(1) = %q, want red", got)
	}
	if got := FromACI(ACIByLayer); got != ByLayer {
		t.Errorf("FromACI(256) = %q, want ByLayer", got)
	}
	if got := FromACI(77); got != Color("#ffffff") {
		t.Errorf("FromACI(77) = %q, want white fallback", got)
	}
}

func TestACIRoundTrip(t *testing.T) {
	// Every palette color survives export and import unchanged.
	for i := 0; i <= 9; i++ {
		c := FromACI(i)
		if got := NearestACI(c); got != i {
			t.Errorf("NearestACI(FromACI(%d)) = %d", i, got)
		}
	}
}

func TestColorResolve(t *testing.T) {
	layerColor := Color("#00ff00")
	if got := ByLayer.Resolve(layerColor); got != layerColor {
		t.Errorf("ByLayer.Resolve = %q, want layer color", got)
	}
	explicit := Color("#ff0000")
	if got := explicit.Resolve(layerColor); got != explicit {
		t.Errorf("explicit.Resolve = %q, want the explicit color kept", got)
	}
	if got := Color("").Resolve(layerColor); got != layerColor {
		t.Errorf("empty color should defer to the layer, got %q", got)
	}
}
