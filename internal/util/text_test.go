package util

import "testing"

func TestNormalizeHeader(t *testing.T) {
	if got := NormalizeHeader("  Encargo \n ADSE  "); got != "ENCARGO ADSE" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeHeader("Código"); got != "CÓDIGO" {
		t.Fatalf("got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Consultas", want: "consultas"},
		{input: "Medicina Física e de Reabilitação", want: "medicina-fisica-e-de-reabilitacao"},
		{input: "Análises Clínicas", want: "analises-clinicas"},
		{input: "  Cirurgia  ", want: "cirurgia"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.input); got != tc.want {
			t.Fatalf("Slugify(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}

func TestStripLeadingZeros(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "00123", want: "123"},
		{input: "123", want: "123"},
		{input: "000", want: "0"},
		{input: "A123", want: "A123"},
	}
	for _, tc := range cases {
		if got := StripLeadingZeros(tc.input); got != tc.want {
			t.Fatalf("StripLeadingZeros(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}
