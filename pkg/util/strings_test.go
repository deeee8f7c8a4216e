package util

import "testing"

func TestNormalizeStationName(t *testing.T) {
	cases := map[string]string{
		"강남":          "강남",
		"강남역":         "강남",
		"강남 (2호선)":    "강남",
		"교대[법원·검찰청]역": "교대",
		" 서울대입구 ":      "서울대입구",
	}

	for input, expected := range cases {
		if got := NormalizeStationName(input); got != expected {
			t.Errorf("NormalizeStationName(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestNormalizeStationNameKeepsInteriorHanja(t *testing.T) {
	// 역삼 starts with the suffix character; only a trailing 역 comes off.
	if got := NormalizeStationName("역삼역"); got != "역삼" {
		t.Errorf("got %q", got)
	}
	if got := NormalizeStationName("역삼"); got != "역삼" {
		t.Errorf("got %q", got)
	}
}

func TestContainsString(t *testing.T) {
	values := []string{"beta", "gamma"}

	if !ContainsString(values, "beta") {
		t.Error("expected beta to be found")
	}
	if ContainsString(values, "delta") {
		t.Error("did not expect delta to be found")
	}
}
