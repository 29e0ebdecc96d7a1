package apierr

import (
	"strings"
	"testing"
	"time"

	"openenterprise/tinydash/jsonw"
)

func TestNextRequestIDIsMonotonic(t *testing.T) {
	a := NextRequestID()
	b := NextRequestID()
	if b != a+1 {
		t.Fatalf("expected consecutive IDs, got %d then %d", a, b)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   400,
		CodeUnauthorized: 401,
		CodeNotFound:     404,
		CodeConflict:     409,
		CodeTooLarge:     413,
		CodeRateLimited:  429,
		CodeInternal:     500,
		CodeUnavailable:  503,
	}
	for code, want := range cases {
		e := Error{Code: code}
		if got := e.HTTPStatus(); got != want {
			t.Errorf("%s: expected status %d, got %d", code, want, got)
		}
	}
}

func TestWriteJSONOmitsEmptyField(t *testing.T) {
	var buf [256]byte
	w := jsonw.NewWriter(buf[:])
	e := New(CodeNotFound, "not found", time.Unix(1000, 0))
	e.WriteJSON(w)
	body := string(w.Bytes())
	if strings.Contains(body, `"field"`) {
		t.Fatalf("expected no field key when Field is empty, got %s", body)
	}
	if !strings.Contains(body, `"code":"not_found"`) {
		t.Fatalf("expected code in body, got %s", body)
	}
	if !strings.Contains(body, `"request_id":`) {
		t.Fatalf("expected request_id in body, got %s", body)
	}
}

func TestWriteJSONIncludesField(t *testing.T) {
	var buf [256]byte
	w := jsonw.NewWriter(buf[:])
	e := New(CodeBadRequest, "invalid value", time.Unix(1000, 0)).WithField("brightness")
	e.WriteJSON(w)
	body := string(w.Bytes())
	if !strings.Contains(body, `"field":"brightness"`) {
		t.Fatalf("expected field in body, got %s", body)
	}
}

func TestWriteJSONTimestamp(t *testing.T) {
	var buf [256]byte
	w := jsonw.NewWriter(buf[:])
	e := New(CodeInternal, "boom", time.Unix(12345, 0))
	e.WriteJSON(w)
	body := string(w.Bytes())
	if !strings.Contains(body, `"timestamp":12345`) {
		t.Fatalf("expected unix timestamp 12345 in body, got %s", body)
	}
}
