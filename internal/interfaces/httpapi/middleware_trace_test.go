package httpapi

import "testing"

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /READYZ ", want: false},
		{path: "/docs", want: false},
		{path: "/openapi.yaml", want: false},
		{path: notificationStreamPath, want: false},
		{path: "/v1/notifications", want: true},
		{path: "/v1/campaigns", want: true},
		{path: "/internal/jobs/recompute-matches", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := shouldTraceRequest(tt.path); got != tt.want {
				t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRouteName(t *testing.T) {
	tests := map[string]string{
		"/v1/campaigns/cmp_01J9Z3/matches/ath-42":               "/v1/campaigns/{id}/matches/{id}",
		"/v1/notifications/read-all":                            "/v1/notifications/read-all",
		"/v1/agencies/me/saved-athletes":                        "/v1/agencies/me/saved-athletes",
		"/v1/deals/9b2f3c1e-8d4a-4f6e-9a0b-1c2d3e4f5a6b/review": "/v1/deals/{id}/review",
		"/v1/imports/abcdefabcdefabcdefabcdef/commit":           "/v1/imports/{id}/commit",
		"/v2/athletes/me":                                       "/v2/athletes/me",
		"/v1/athletes/v12x":                                     "/v1/athletes/{id}",
	}
	for in, want := range tests {
		if got := routeName(in); got != want {
			t.Fatalf("routeName(%q) = %q, want %q", in, got, want)
		}
	}
}
