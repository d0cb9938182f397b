package target

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestComponentTempl(t *testing.T) {
	doc, el := NewTestDocument("probe")
	rec := NewRecorder(NewTarget("probe", doc, el, nil))
	rec.Update()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	if err := Render(recorder, req, Component(rec.Target)); err != nil {
		t.Fatalf("Render() = %v", err)
	}

	if ct := recorder.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(recorder.Body.String(), `<p class="probe">probe</p>`) {
		t.Errorf("body = %q", recorder.Body.String())
	}
}

func TestComponentTemplAfterDestroy(t *testing.T) {
	doc, el := NewTestDocument("probe")
	rec := NewRecorder(NewTarget("probe", doc, el, nil))
	rec.Update()
	rec.Destroy()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	if err := Render(recorder, req, Component(rec.Target)); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if recorder.Body.Len() != 0 {
		t.Errorf("destroyed component rendered %q", recorder.Body.String())
	}
}
