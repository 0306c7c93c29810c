package parse

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    Kind
	}{
		{
			name:    "submitted-exact",
			subject: "Your application was successfully submitted",
			want:    KindSubmitted,
		},
		{
			name: "submitted-requires-exact-equality",
			// Extra words demote the subject to unknown; the provider
			// filter is a substring match but the classifier is not.
			subject: "Re: Your application was successfully submitted",
			want:    KindUnknown,
		},
		{
			name:    "submitted-is-case-sensitive",
			subject: "your application was successfully submitted",
			want:    KindUnknown,
		},
		{
			name:    "viewed",
			subject: "Acme Corp. has viewed your application for Backend Engineer",
			want:    KindViewed,
		},
		{
			name:    "viewed-with-wrapped-whitespace",
			subject: "Acme Corp. has viewed  your\r\n application for Backend Engineer",
			want:    KindViewed,
		},
		{
			name:    "closed",
			subject: "Acme Corp. has closed the Backend Engineer job",
			want:    KindClosed,
		},
		{
			name:    "unknown",
			subject: "Weekly job digest",
			want:    KindUnknown,
		},
		{
			name:    "empty",
			subject: "",
			want:    KindUnknown,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.subject); got != tc.want {
				t.Fatalf("Classify(%q) = %v, want %v", tc.subject, got, tc.want)
			}
		})
	}
}
