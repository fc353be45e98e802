package timezone

import "testing"

func TestLocation_FallsBackToUTC(t *testing.T) {
	if got := Location(""); got.String() != "UTC" {
		t.Fatalf("Location(\"\") = %s, want UTC", got)
	}
	if got := Location("Mars/Olympus"); got.String() != "UTC" {
		t.Fatalf("Location(unknown) = %s, want UTC", got)
	}
}

func TestParseDate_UsesLocation(t *testing.T) {
	d, err := ParseDate("America/Sao_Paulo", "2026-03-02")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d.Hour() != 0 || d.Location().String() != "America/Sao_Paulo" {
		t.Fatalf("date = %v", d)
	}
	if _, offset := d.Zone(); offset != -3*3600 {
		t.Fatalf("offset = %d, want -10800", offset)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("Europe/Lisbon") || IsValid("") || IsValid("nope") {
		t.Fatalf("IsValid mismatch")
	}
}
