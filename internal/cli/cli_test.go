package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func newTestServer(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		route(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", url}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSweepCommand(t *testing.T) {
	tests := map[string]struct {
		status   int
		body     string
		wantErr  bool
		contains []string
	}{
		"completed": {
			status: http.StatusOK,
			body: `{"id":"s-1","scanned":3,"fired":1,"failed":1,"skipped":1,"outcomes":[
				{"deadlineId":"d-1","bookingId":"b-1","tier":"H6","outcome":"FIRED"},
				{"deadlineId":"d-2","bookingId":"b-2","tier":"OVERDUE","outcome":"DISPATCH_FAILED","error":"timeout"}]}`,
			contains: []string{"Sweep s-1", "scanned: 3", "FIRED", "booking=b-1", "DISPATCH_FAILED", "error=timeout"},
		},
		"interrupted": {
			status:   http.StatusOK,
			body:     `{"id":"s-3","scanned":1,"fired":1,"interrupted":true}`,
			contains: []string{"Sweep s-3", "INTERRUPTED"},
		},
		"store unreachable": {
			status:   http.StatusBadGateway,
			body:     `{"id":"s-2","error":"failed to fetch pending deadlines: refused"}`,
			wantErr:  true,
			contains: []string{"FAILED", "refused"},
		},
		"busy": {
			status:  http.StatusConflict,
			body:    `{"error":"sweep already in progress"}`,
			wantErr: true,
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
				"POST /api/v1/escalations/sweep": func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				},
			})

			out, err := execute(t, server.URL, "sweep")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestStatusCommand(t *testing.T) {
	tests := map[string]struct {
		body     string
		contains []string
	}{
		"never swept": {
			body:     `{"running":false}`,
			contains: []string{"Scheduler: idle", "No sweep has completed yet."},
		},
		"running with history": {
			body:     `{"running":true,"lastResult":{"id":"s-7","finishedAt":"2026-03-10T08:00:01Z","scanned":2,"fired":2}}`,
			contains: []string{"Scheduler: sweeping", "2026-03-10T08:00:01Z", "Sweep s-7"},
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
				"GET /api/v1/escalations/status": func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(tt.body))
				},
			})

			out, err := execute(t, server.URL, "status")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestInboxCommand(t *testing.T) {
	var gotLimit string
	server := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"GET /api/v1/users/sales-1/notifications": func(w http.ResponseWriter, r *http.Request) {
			gotLimit = r.URL.Query().Get("limit")
			w.Write([]byte(`[{"id":"n-1","userId":"sales-1","priority":"CRITICAL","title":"🚨 OVERDUE: SI Cut-off passed",
				"message":"Booking BK-1 missed its SI Cut-off 1h 00m ago.","actionLabel":"Cancel / Escalate",
				"actionUrl":"https://ops.example.com/bookings/b-1","isRead":true}]`))
		},
	})

	out, err := execute(t, server.URL, "inbox", "sales-1", "-n", "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != "5" {
		t.Errorf("limit: got %q, want 5", gotLimit)
	}
	for _, want := range []string{"✓ CRITICAL", "OVERDUE: SI Cut-off passed", "Cancel / Escalate → https://ops.example.com/bookings/b-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, server.URL, "inbox"); err == nil {
		t.Error("expected an error without a user id")
	}
}

func TestInboxCommand_EscapesUserID(t *testing.T) {
	var gotPath string
	server := newTestServer(t, map[string]func(w http.ResponseWriter, r *http.Request){
		"GET /api/v1/users/ops desk/notifications": func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			w.Write([]byte(`[]`))
		},
	})

	out, err := execute(t, server.URL, "inbox", "ops desk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "/api/v1/users/ops%20desk/notifications"; gotPath != want {
		t.Errorf("mismatch:\n  got:  %q\n  want: %q", gotPath, want)
	}
	if !strings.Contains(out, "No notifications for ops desk") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
