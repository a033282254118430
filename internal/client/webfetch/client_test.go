package webfetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"testing"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
)

// testClient wraps an httptest server's client so requests can reach loopback,
// which the production dialer refuses.
func testClient(srv *httptest.Server) *Client {
	return &Client{http: srv.Client()}
}

func TestGetJSONSendsParamsAndHeaders(t *testing.T) {
	var gotQuery url.Values
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Get("X-Api-Key")
		w.Write([]byte(`{"name":"Prague","temp":21.5}`))
	}))
	defer srv.Close()

	var out struct {
		Name string  `json:"name"`
		Temp float64 `json:"temp"`
	}
	params := url.Values{"q": {"Prague"}, "units": {"metric"}}
	headers := map[string]string{"X-Api-Key": "secret"}
	if err := testClient(srv).GetJSON(context.Background(), srv.URL, params, headers, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if gotQuery.Get("q") != "Prague" || gotQuery.Get("units") != "metric" {
		t.Errorf("query = %v", gotQuery)
	}
	if gotHeader != "secret" {
		t.Errorf("X-Api-Key = %q", gotHeader)
	}
	if out.Name != "Prague" || out.Temp != 21.5 {
		t.Errorf("decoded = %+v", out)
	}
}

func TestGetJSONStatusMapping(t *testing.T) {
	tests := []struct {
		status        int
		wantTransient bool
	}{
		{http.StatusNotFound, false},
		{http.StatusUnauthorized, false},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}
	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))
		var out any
		err := testClient(srv).GetJSON(context.Background(), srv.URL, nil, nil, &out)
		srv.Close()

		var serr *errs.ExternalServiceError
		if !errors.As(err, &serr) {
			t.Fatalf("status %d: error = %v, want ExternalServiceError", tc.status, err)
		}
		if serr.Transient != tc.wantTransient {
			t.Errorf("status %d: transient = %v, want %v", tc.status, serr.Transient, tc.wantTransient)
		}
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	var out any
	err := testClient(srv).GetJSON(context.Background(), srv.URL, nil, nil, &out)
	var serr *errs.ExternalServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want ExternalServiceError", err)
	}
	if serr.Transient {
		t.Error("malformed body should not be transient")
	}
}

func TestGetTextMalformedURL(t *testing.T) {
	_, err := New(time.Second).GetText(context.Background(), "http://[::1", nil, nil)
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestCheckScheme(t *testing.T) {
	for _, raw := range []string{"ftp://example.com/a", "file:///etc/passwd", "gopher://x"} {
		u, _ := url.Parse(raw)
		if err := checkScheme(u); err == nil {
			t.Errorf("checkScheme(%q) = nil, want error", raw)
		}
	}
	u, _ := url.Parse("https://api.example.com/v1")
	if err := checkScheme(u); err != nil {
		t.Errorf("checkScheme(https) = %v", err)
	}
}

func TestIsBlockedAddr(t *testing.T) {
	blocked := []string{"127.0.0.1", "10.1.2.3", "172.16.0.9", "192.168.1.5", "169.254.1.1", "0.0.0.0", "::1", "fd00::1"}
	for _, s := range blocked {
		if !isBlockedAddr(netip.MustParseAddr(s)) {
			t.Errorf("isBlockedAddr(%s) = false, want true", s)
		}
	}
	allowed := []string{"93.184.216.34", "8.8.8.8", "2606:2800:220:1:248:1893:25c8:1946"}
	for _, s := range allowed {
		if isBlockedAddr(netip.MustParseAddr(s)) {
			t.Errorf("isBlockedAddr(%s) = true, want false", s)
		}
	}
}

func TestDialerRefusesLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	var out any
	if err := New(time.Second).GetJSON(context.Background(), srv.URL, nil, nil, &out); err == nil {
		t.Fatal("request to loopback succeeded, want refusal")
	}
}
