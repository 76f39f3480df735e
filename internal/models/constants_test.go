package models

import "testing"

func TestHasGenreTag(t *testing.T) {
	tests := []struct {
		name string
		tags string
		want bool
	}{
		{"single exact term", "techno", true},
		{"term inside comma list", "ambient,house,chillout", true},
		{"case insensitive", "Detroit Techno,Electro", true},
		{"term as substring", "electronica dance music", true},
		{"no matching term", "jazz,blues,classical", false},
		{"empty tags", "", false},
		{"edm", "pop,EDM", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasGenreTag(tt.tags); got != tt.want {
				t.Errorf("HasGenreTag(%q) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestNewFavoriteStation(t *testing.T) {
	fav := NewFavoriteStation("uuid-1", "Deep FM", "http://stream.example/deep", "DE", "house")
	if fav.ID == "" {
		t.Error("expected a generated id")
	}
	if fav.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
	other := NewFavoriteStation("uuid-1", "Deep FM", "http://stream.example/deep", "DE", "house")
	if fav.ID == other.ID {
		t.Error("expected distinct ids for distinct favorites")
	}
}
