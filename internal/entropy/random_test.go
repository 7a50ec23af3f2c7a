package entropy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestNewClientEmptyKey(t *testing.T) {
	c := NewClient("")
	if c != nil || c.Enabled() {
		t.Fatal("empty key should give a disabled nil client")
	}
	if s := c.Seed(); s < 0 {
		t.Errorf("nil client seed = %d, want non-negative", s)
	}
}

func TestNewSeedNonNegative(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		s := NewSeed()
		if s < 0 {
			t.Fatalf("NewSeed = %d", s)
		}
		seen[s] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct seeds out of 50", len(seen))
	}
}

func TestSeedFromPool(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Method string `json:"method"`
			Params struct {
				APIKey string `json:"apiKey"`
				N      int    `json:"n"`
			} `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method != "generateIntegers" || req.Params.APIKey != "k" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"random": map[string]any{"data": []int64{11, 22}}},
		})
	}))
	defer srv.Close()

	c := NewClient("k")
	c.endpoint = srv.URL

	for _, want := range []int64{11, 22, 11} {
		if got := c.Seed(); got != want {
			t.Fatalf("Seed = %d, want %d", got, want)
		}
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("random.org called %d times, want 2", n)
	}
}

func TestSeedFallsBackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"key revoked"}}`))
	}))
	defer srv.Close()

	c := NewClient("k")
	c.endpoint = srv.URL
	if s := c.Seed(); s < 0 {
		t.Errorf("fallback seed = %d", s)
	}
	if len(c.pool) != 0 {
		t.Error("pool filled from an error response")
	}
}
