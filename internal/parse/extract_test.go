package parse

import "testing"

func TestExtractSubmitted(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantPosition string
		wantCompany  string
		wantLink     string
		wantLocation string
	}{
		{
			name:         "position-and-company",
			text:         "Your application for Backend Engineer was successfully submitted to Acme Corp.. Each day...",
			wantPosition: "Backend Engineer",
			wantCompany:  "Acme Corp.",
		},
		{
			name: "link-and-location",
			text: "Your application for Backend Engineer was successfully submitted to Acme Corp.. Each day. " +
				"Backend Engineer [ https://example.com/job/123 ] Acme Corp. Makati City, Metro Manila",
			wantPosition: "Backend Engineer",
			wantCompany:  "Acme Corp.",
			wantLink:     "https://example.com/job/123",
			wantLocation: "Makati City, Metro Manila",
		},
		{
			name:         "location-junk-stripped",
			text:         "Your application for Clerk was successfully submitted to Acme. Each day. Clerk [ https://example.com/j ] Acme Cebu City *",
			wantPosition: "Clerk",
			wantCompany:  "Acme",
			wantLink:     "https://example.com/j",
			wantLocation: "Cebu City",
		},
		{
			name: "missing-anchor-yields-nothing",
			text: "Thanks for applying! Clerk [ https://example.com/j ] Acme Cebu",
		},
		{
			name:         "link-skipped-without-company",
			text:         "Your application for Clerk was successfully submitted to . Each day.",
			wantPosition: "Clerk",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			f := Extract(KindSubmitted, tc.text)
			if f.Position != tc.wantPosition {
				t.Fatalf("position: got %q want %q", f.Position, tc.wantPosition)
			}
			if f.Company != tc.wantCompany {
				t.Fatalf("company: got %q want %q", f.Company, tc.wantCompany)
			}
			if f.JobLink != tc.wantLink {
				t.Fatalf("link: got %q want %q", f.JobLink, tc.wantLink)
			}
			if f.Location != tc.wantLocation {
				t.Fatalf("location: got %q want %q", f.Location, tc.wantLocation)
			}
		})
	}
}

func TestExtractViewed(t *testing.T) {
	text := "Your application for Backend Engineer was viewed by Acme Corp.. Each day. Applied on 25 Dec 2023"
	f := Extract(KindViewed, text)
	if f.Position != "Backend Engineer" || f.Company != "Acme Corp." {
		t.Fatalf("got position %q company %q", f.Position, f.Company)
	}
	if f.AppliedOnText != "25 Dec 2023" {
		t.Fatalf("applied-on fragment: got %q", f.AppliedOnText)
	}
}

func TestExtractViewedFragmentWithoutYear(t *testing.T) {
	text := "Your application for Clerk was viewed by Acme. Each day. Applied on 3 Jun Application information"
	f := Extract(KindViewed, text)
	if f.AppliedOnText != "3 Jun Application information" {
		t.Fatalf("applied-on fragment: got %q", f.AppliedOnText)
	}
}

func TestExtractClosed(t *testing.T) {
	text := "Unfortunately the Backend Engineer job you applied for at Acme Corp has expired. " +
		"Applied on 25 Dec Application information [ https://example.com/job/123 ] 42 candidates applied"
	f := Extract(KindClosed, text)
	if f.Position != "Backend Engineer" {
		t.Fatalf("position: got %q", f.Position)
	}
	if f.Company != "Acme Corp" {
		t.Fatalf("company: got %q", f.Company)
	}
	if f.ApplicantCount == nil || *f.ApplicantCount != 42 {
		t.Fatalf("applicant count: got %v", f.ApplicantCount)
	}
}

func TestExtractClosedWithoutCountLeavesItAbsent(t *testing.T) {
	text := "Unfortunately the Clerk job you applied for at Acme has expired. Applied on 3 Jun"
	f := Extract(KindClosed, text)
	if f.ApplicantCount != nil {
		t.Fatalf("expected absent applicant count, got %d", *f.ApplicantCount)
	}
	if f.AppliedOnText == "" {
		t.Fatalf("expected applied-on fragment")
	}
}
