package limiter

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/m-zajac/goportfolio/internal/mock"
)

func TestTransportRate(t *testing.T) {
	maxRate := 500.0
	testTime := 200 * time.Millisecond

	doer := &mock.HTTPDoer{}
	transport := NewTransport(doer, maxRate)

	req, _ := http.NewRequest(http.MethodGet, "http://fakeurl", nil)
	startTime := time.Now()
	var trips int
	for startTime.Add(testTime).After(time.Now()) {
		if _, err := transport.RoundTrip(req); err != nil {
			t.Fatalf("RoundTrip() returned error: %v", err)
		}
		trips++
	}

	expectedTrips := float64(maxRate) * float64(testTime) / float64(time.Second)
	diff := math.Abs(float64(trips)-expectedTrips) / expectedTrips
	if diff > 0.1 {
		t.Errorf("unexpected number of round trips: %d, want %d", trips, int(expectedTrips))
	}
}

func TestTransportTimeout(t *testing.T) {
	doer := &mock.HTTPDoer{}
	client := &http.Client{Transport: NewTransport(doer, 1)}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://fakeurl", nil)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("first Do() returned error: %v", err)
	}
	resp.Body.Close()

	// Error is expected because of short ctx timeout and low rate limit.
	if _, err := client.Do(req); err == nil {
		t.Fatal("second Do() didn't return error")
	}
	if doer.Calls() != 1 {
		t.Errorf("unexpected number of calls: %d, want 1", doer.Calls())
	}
}
