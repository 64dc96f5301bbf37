package models

import "testing"

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: "JSON", want: FormatJSON},
		{in: ".json", want: FormatJSON},
		{in: "  csv ", want: FormatCSV},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUser(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		var nilUser *User
		if err := nilUser.Validate(); err == nil {
			t.Error("expected nil user to be invalid")
		}
		if err := (&User{Username: "  "}).Validate(); err == nil {
			t.Error("expected blank username to be invalid")
		}
		if err := (&User{Username: "ada"}).Validate(); err != nil {
			t.Errorf("expected valid user, got %v", err)
		}
	})

	t.Run("EmailOr", func(t *testing.T) {
		email := "ada@example.com"
		if got := (&User{Username: "ada", Email: &email}).EmailOr("-"); got != email {
			t.Errorf("EmailOr() = %s, want %s", got, email)
		}
		if got := (&User{Username: "ada"}).EmailOr("-"); got != "-" {
			t.Errorf("EmailOr() = %s, want fallback", got)
		}
	})
}

func TestCounts(t *testing.T) {
	t.Run("Clone is independent", func(t *testing.T) {
		orig := Counts{Neutral: 5}
		clone := orig.Clone()
		clone[Neutral] = 9

		if orig[Neutral] != 5 {
			t.Errorf("mutating clone changed original: %v", orig)
		}
	})

	t.Run("Get treats missing as zero", func(t *testing.T) {
		if got := (Counts{Positive: 3}).Get(VeryNegative); got != 0 {
			t.Errorf("Get() = %d, want 0", got)
		}
	})

	t.Run("Categories order and membership", func(t *testing.T) {
		cats := Categories()
		want := []Category{"very_positive", "positive", "neutral", "negative", "very_negative"}
		if len(cats) != len(want) {
			t.Fatalf("expected %d categories, got %d", len(want), len(cats))
		}
		for i := range want {
			if cats[i] != want[i] {
				t.Errorf("Categories()[%d] = %s, want %s", i, cats[i], want[i])
			}
			if !cats[i].Known() {
				t.Errorf("%s should be known", cats[i])
			}
		}
		if Category("ecstatic").Known() {
			t.Error("unexpected category reported as known")
		}
	})
}
