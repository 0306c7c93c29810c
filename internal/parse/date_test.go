package parse

import (
	"errors"
	"testing"
	"time"
)

func TestEmailDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "with-parenthetical-zone",
			input: "Mon, 02 Jan 2024 03:04:05 +0000 (UTC)",
			want:  "2024-01-02",
		},
		{
			name:  "without-parenthetical",
			input: "Tue, 5 Mar 2024 18:30:00 +0800",
			want:  "2024-03-05",
		},
		{
			name: "keeps-sender-offset",
			// 23:30 in +0800 is still 5 Mar for the sender even though
			// it is 15:30 UTC.
			input: "Tue, 5 Mar 2024 23:30:00 +0800",
			want:  "2024-03-05",
		},
		{
			name:    "garbage",
			input:   "not a date",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			got, err := EmailDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				var dfe *DateFormatError
				if !errors.As(err, &dfe) {
					t.Fatalf("expected DateFormatError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestResolveAppliedDateYearInference(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		now      time.Time
		want     string
	}{
		{
			name:     "january-processing-dates-december-into-prior-year",
			fragment: "25 Dec",
			now:      time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			want:     "2023-12-25",
		},
		{
			name:     "mid-year-keeps-current-year",
			fragment: "3 Jun",
			now:      time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			want:     "2024-06-03",
		},
		{
			name:     "explicit-year-wins",
			fragment: "25 Dec 2022",
			now:      time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			want:     "2022-12-25",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveAppliedDate(tc.fragment, tc.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestResolveAppliedDateRepairsWrappedFragments(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{name: "digits-split", fragment: "2 5 Dec", want: "2024-12-25"},
		{name: "month-glued-to-day", fragment: "25Dec", want: "2024-12-25"},
		{name: "month-letters-split", fragment: "25 D ec", want: "2024-12-25"},
		{
			name:     "boilerplate-suffix",
			fragment: "25 Dec Application information",
			want:     "2024-12-25",
		},
		{
			name:     "similar-jobs-suffix",
			fragment: "3 May Similar jobs you might like",
			want:     "2024-05-03",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveAppliedDate(tc.fragment, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestResolveAppliedDateRejectsGarbage(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	for _, fragment := range []string{"", "soon", "99 Nop"} {
		if _, err := ResolveAppliedDate(fragment, now); err == nil {
			t.Fatalf("expected error for %q", fragment)
		}
	}
}

func TestCleanFragmentIdempotent(t *testing.T) {
	inputs := []string{"25 Dec", "3 Jun", "25 Dec 2022", "2 5 D ec Application information"}
	for _, in := range inputs {
		once := CleanFragment(in)
		twice := CleanFragment(once)
		if once != twice {
			t.Fatalf("clean of %q not idempotent: %q then %q", in, once, twice)
		}
	}
}
