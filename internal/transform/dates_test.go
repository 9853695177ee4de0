package transform

import (
	"testing"
	"time"
)

func intp(n int) *int { return &n }

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name      string
		date      PartialDate
		precision Precision
		want      string
	}{
		{"full date at day", PartialDate{Year: 2021, Month: intp(3), Day: intp(9)}, PrecisionDay, "2021-03-09"},
		{"full date at month", PartialDate{Year: 2021, Month: intp(3), Day: intp(9)}, PrecisionMonth, "2021-03"},
		{"full date at year", PartialDate{Year: 2021, Month: intp(3), Day: intp(9)}, PrecisionYear, "2021"},
		{"no day falls back to month", PartialDate{Year: 2021, Month: intp(11)}, PrecisionDay, "2021-11"},
		{"no month falls back to year at day", PartialDate{Year: 2021}, PrecisionDay, "2021"},
		{"no month falls back to year at month", PartialDate{Year: 2021}, PrecisionMonth, "2021"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatDate(tt.date, tt.precision)
			if err != nil {
				t.Fatalf("FormatDate: %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatDate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDateYearOnlyAtAnyPrecision(t *testing.T) {
	d := PartialDate{Year: 1999}
	for _, p := range []Precision{PrecisionYear, PrecisionMonth, PrecisionDay} {
		got, err := FormatDate(d, p)
		if err != nil {
			t.Fatalf("FormatDate(%s): %v", p, err)
		}
		if got != "1999" {
			t.Errorf("FormatDate(%s) = %q, want %q", p, got, "1999")
		}
	}
}

func TestFormatDateInvalidPrecision(t *testing.T) {
	if _, err := FormatDate(PartialDate{Year: 2020}, Precision("week")); err == nil {
		t.Fatal("expected error for unrecognized precision")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name   string
		window DurationWindow
		want   string
	}{
		{
			"closed window",
			DurationWindow{Start: &PartialDate{Year: 2019, Month: intp(2)}, End: &PartialDate{Year: 2021, Month: intp(6)}},
			"DURATION: 2019-02 to 2021-06",
		},
		{
			"open end renders Present",
			DurationWindow{Start: &PartialDate{Year: 2022, Month: intp(1)}},
			"DURATION: 2022-01 to Present",
		},
		{
			"missing start renders Unknown",
			DurationWindow{End: &PartialDate{Year: 2020}},
			"DURATION: Unknown to 2020",
		},
		{
			"empty window",
			DurationWindow{},
			"DURATION: Unknown to Present",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.window, "DURATION: ", "")
			if got != tt.want {
				t.Errorf("FormatDuration = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDurationMissingEndAlwaysEndsInPresent(t *testing.T) {
	windows := []DurationWindow{
		{},
		{Start: &PartialDate{Year: 2010}},
		{Start: &PartialDate{Year: 2010, Month: intp(7)}},
	}
	for _, w := range windows {
		got := FormatDuration(w, "", "")
		if want := " to Present"; len(got) < len(want) || got[len(got)-len(want):] != want {
			t.Errorf("FormatDuration(%+v) = %q, want suffix %q", w, got, want)
		}
	}
}

func TestIsOngoing(t *testing.T) {
	tests := []struct {
		name   string
		window *DurationWindow
		now    time.Time
		want   bool
	}{
		{"nil window", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"no end date", &DurationWindow{Start: &PartialDate{Year: 2018}}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{
			"year-only end after december has elapsed",
			&DurationWindow{End: &PartialDate{Year: 2020}},
			time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"year-only end before december",
			&DurationWindow{End: &PartialDate{Year: 2020}},
			time.Date(2020, 11, 30, 0, 0, 0, 0, time.UTC),
			true,
		},
		{
			"month end in the past",
			&DurationWindow{End: &PartialDate{Year: 2020, Month: intp(3)}},
			time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"month end in the future",
			&DurationWindow{End: &PartialDate{Year: 2030, Month: intp(3)}},
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOngoing(tt.window, tt.now); got != tt.want {
				t.Errorf("IsOngoing = %v, want %v", got, tt.want)
			}
		})
	}
}
