package urlcheck

import "testing"

func TestExtractHostname(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{
			name:   "full https URL",
			raw:    "https://jobs.basf.com/de/job/12345",
			want:   "jobs.basf.com",
			wantOK: true,
		},
		{
			name:   "bare domain with path",
			raw:    "basf.com/careers",
			want:   "basf.com",
			wantOK: true,
		},
		{
			name:   "http scheme",
			raw:    "http://www.covestro.com/en/careers",
			want:   "www.covestro.com",
			wantOK: true,
		},
		{
			name:   "port stripped",
			raw:    "https://careers.evonik.com:8443/jobs",
			want:   "careers.evonik.com",
			wantOK: true,
		},
		{
			name:   "uppercase host lowered",
			raw:    "https://Jobs.BASF.com/x",
			want:   "jobs.basf.com",
			wantOK: true,
		},
		{
			name:   "empty string",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "whitespace only",
			raw:    "   ",
			wantOK: false,
		},
		{
			name:   "unparseable input",
			raw:    "not a url at all",
			wantOK: false,
		},
		{
			name:   "scheme only",
			raw:    "https://",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractHostname(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ExtractHostname(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractHostname(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
