package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/RemieJanssen/NetworkGenerators/pkg/pipeline"
)

func testServer() *Server {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(runner, logger)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`status = %q, want "ok"`, body["status"])
	}
}

func TestNetwork(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	t.Run("edge list", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/network?tips=10&reticulations=2&seed=42&format=el")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if got := resp.Header.Get("X-Seed"); got != "42" {
			t.Errorf("X-Seed = %q, want %q", got, "42")
		}
		if resp.Header.Get("X-Run-Id") == "" {
			t.Error("X-Run-Id header missing")
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		// 2*10-2 tree edges plus 3 per reticulation.
		lines := strings.Split(string(body), "\r\n")
		if len(lines) != 24 {
			t.Errorf("edge lines = %d, want 24", len(lines))
		}
	})

	t.Run("json format", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/network?tips=5&reticulations=0&seed=1&format=json")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if got := resp.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}

		var doc struct {
			Nodes []any `json:"nodes"`
			Edges []any `json:"edges"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(doc.Nodes) != 9 || len(doc.Edges) != 8 {
			t.Errorf("got %d nodes, %d edges; want 9, 8", len(doc.Nodes), len(doc.Edges))
		}
	})

	t.Run("seeded responses are identical", func(t *testing.T) {
		fetch := func() string {
			resp, err := http.Get(srv.URL + "/network?tips=20&reticulations=5&seed=7")
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			return string(body)
		}
		if a, b := fetch(), fetch(); a != b {
			t.Error("seeded responses differ")
		}
	})

	t.Run("unseeded response reports seed", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/network?tips=5")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if got := resp.Header.Get("X-Seed"); got == "" || got == "0" {
			t.Errorf("X-Seed = %q, want a fresh nonzero seed", got)
		}
	})
}

func TestNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed tips",
			query:      "tips=abc",
			wantStatus: http.StatusBadRequest,
			wantError:  "INVALID_INPUT",
		},
		{
			name:       "malformed beta",
			query:      "beta=oops",
			wantStatus: http.StatusBadRequest,
			wantError:  "INVALID_INPUT",
		},
		{
			name:       "malformed seed",
			query:      "seed=-1",
			wantStatus: http.StatusBadRequest,
			wantError:  "INVALID_INPUT",
		},
		{
			name:       "tips too small",
			query:      "tips=1",
			wantStatus: http.StatusBadRequest,
			wantError:  "INVALID_INPUT",
		},
		{
			name:       "degenerate beta",
			query:      "tips=10&beta=-3",
			wantStatus: http.StatusBadRequest,
			wantError:  "NUMERIC_DEGENERACY",
		},
		{
			name:       "newick format",
			query:      "format=nw",
			wantStatus: http.StatusBadRequest,
			wantError:  "UNSUPPORTED",
		},
		{
			name:       "unknown format",
			query:      "format=xml",
			wantStatus: http.StatusBadRequest,
			wantError:  "INVALID_FORMAT",
		},
		{
			name:       "invalid stop probability",
			query:      "local=2.0",
			wantStatus: http.StatusBadRequest,
			wantError:  "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/network?" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
			if body["message"] == "" {
				t.Error("message is empty")
			}
		})
	}
}
