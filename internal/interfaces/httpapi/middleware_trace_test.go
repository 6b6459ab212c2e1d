package httpapi

import "testing"

func TestShouldTraceRequest_SkipsProbeEndpoints(t *testing.T) {
	t.Parallel()

	paths := []string{"/healthz", "/health", "/livez", "/readyz", " /healthz "}
	for _, path := range paths {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_TracesForecastRoutes(t *testing.T) {
	t.Parallel()

	paths := []string{
		"/v1/matches/upcoming",
		"/v1/matches/2001/prediction",
		"/v1/predictions/accuracy",
		"/v1/internal/jobs/sync-history",
		"/openapi.yaml",
	}
	for _, path := range paths {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}
