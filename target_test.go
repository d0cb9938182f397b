package target

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MarJC5/target/lib/surface"
)

func TestLifecycleOrdering(t *testing.T) {
	doc, el := NewTestDocument("probe")
	rec := NewRecorder(NewTarget("probe", doc, el, nil))

	rec.Update()

	want := []string{"willMount", "render", "didMount", "didUpdate"}
	if !reflect.DeepEqual(rec.Calls, want) {
		t.Fatalf("first update calls = %v, want %v", rec.Calls, want)
	}
	if !rec.IsMounted() {
		t.Error("IsMounted() = false after first update")
	}
	if el.HTML() == "" {
		t.Error("container empty after first update")
	}

	// A second update must not re-run the mount hooks.
	rec.SetState(map[string]any{"n": 1})

	if got := rec.CallCount("willMount"); got != 1 {
		t.Errorf("willMount count = %d, want 1", got)
	}
	if got := rec.CallCount("didMount"); got != 1 {
		t.Errorf("didMount count = %d, want 1", got)
	}
	if got := rec.CallCount("didUpdate"); got != 2 {
		t.Errorf("didUpdate count = %d, want 2", got)
	}
	if got := rec.CallCount("render"); got != 2 {
		t.Errorf("render count = %d, want 2", got)
	}
}

func TestSetStateMergesShallow(t *testing.T) {
	doc, el := NewTestDocument("probe")
	rec := NewRecorder(NewTarget("probe", doc, el, nil).InitState(map[string]any{
		"kept":    "original",
		"patched": "original",
	}))

	rec.SetState(map[string]any{"patched": "new", "added": true})

	want := map[string]any{"kept": "original", "patched": "new", "added": true}
	if got := rec.State(); !reflect.DeepEqual(got, want) {
		t.Errorf("State() = %#v, want %#v", got, want)
	}
}

func TestUpdateWithoutContainer(t *testing.T) {
	doc := surface.New()
	rec := NewRecorder(NewTarget("probe", doc, nil, nil))

	rec.Update()

	if len(rec.Calls) != 0 {
		t.Errorf("update without container ran hooks: %v", rec.Calls)
	}
	if rec.IsMounted() {
		t.Error("IsMounted() = true without container")
	}
}

func TestUnmountReleasesStylesAndContent(t *testing.T) {
	doc, el := NewTestDocument("probe")
	rec := NewRecorder(NewTarget("probe", doc, el, nil))
	rec.Update()
	rec.Styles().AddStyle("probe", Rules{".probe": "color: red"}, true)

	rec.Unmount()

	if got := rec.CallCount("willUnmount"); got != 1 {
		t.Errorf("willUnmount count = %d, want 1", got)
	}
	if got := len(doc.Head().Children()); got != 0 {
		t.Errorf("head has %d nodes after unmount, want 0", got)
	}
	if el.HTML() != "" {
		t.Errorf("container HTML = %q after unmount, want empty", el.HTML())
	}
	if rec.Container() == nil {
		t.Error("Unmount dropped the container reference")
	}
}

func TestDestroyMakesInert(t *testing.T) {
	doc, el := NewTestDocument("probe")
	rec := NewRecorder(NewTarget("probe", doc, el, nil))
	rec.Update()

	rec.Destroy()

	if rec.Container() != nil {
		t.Fatal("Destroy kept the container reference")
	}

	before := el.HTML()
	calls := len(rec.Calls)
	rec.SetState(map[string]any{"n": 1}) // must not throw, must not mutate
	rec.Update()

	if el.HTML() != before {
		t.Error("post-destroy SetState mutated the DOM")
	}
	if len(rec.Calls) != calls {
		t.Errorf("post-destroy calls ran hooks: %v", rec.Calls[calls:])
	}
	if _, ok := rec.StateValue("n"); ok {
		t.Error("post-destroy SetState merged state")
	}
}

func TestHashAndStyleID(t *testing.T) {
	doc, el := NewTestDocument("index-page")
	base := NewTarget("index-page", doc, el, nil)

	hash := base.Hash()
	if len(hash) != 8 {
		t.Fatalf("Hash() = %q, want 8 characters", hash)
	}
	for _, r := range hash {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			t.Fatalf("Hash() = %q, not lowercase alphanumeric", hash)
		}
	}
	if base.StyleID() != "index-page" {
		t.Errorf("StyleID() = %q, want %q", base.StyleID(), "index-page")
	}

	other := NewTarget("index-page", doc, el, nil)
	if other.Hash() == hash {
		t.Error("two instances share a hash")
	}
}

func TestPlaceholdersMergePropsAndState(t *testing.T) {
	doc, el := NewTestDocument("probe")
	base := NewTarget("probe", doc, el, nil).InitState(map[string]any{"b": 2, "c": 3})
	base.Props = map[string]any{"a": 1, "b": "shadowed"}

	want := map[string]any{"a": 1, "b": 2, "c": 3}
	if got := base.Placeholders(); !reflect.DeepEqual(got, want) {
		t.Errorf("Placeholders() = %#v, want %#v", got, want)
	}
}

func TestDevModeMarkers(t *testing.T) {
	doc, el := NewTestDocument("probe")
	rec := NewRecorder(NewTarget("probe", doc, el, &Config{Dev: true}))

	rec.Update()

	if !strings.HasPrefix(el.HTML(), "<!-- target:probe:") {
		t.Errorf("missing opening marker: %q", el.HTML())
	}
	if !strings.HasSuffix(el.HTML(), "<!-- /target:probe -->") {
		t.Errorf("missing closing marker: %q", el.HTML())
	}
}

func TestSetTitle(t *testing.T) {
	doc, el := NewTestDocument("probe")
	base := NewTarget("probe", doc, el, nil)
	base.SetTitle("Home")
	if doc.Title() != "Home" {
		t.Errorf("Title() = %q, want Home", doc.Title())
	}
}

func TestFetchLifecycle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"fetched"}`))
	}))
	defer server.Close()

	doc, el := NewTestDocument("page")
	rec := NewRecorder(NewTarget("page", doc, el, nil).UseAPI(APIDescriptor{
		URL:      server.URL,
		Endpoint: "/posts/1",
	}))
	var markups []string
	rec.RenderFunc = func() string {
		markup := `<div class="ready"></div>`
		if rec.StateBool("loading") {
			markup = `<div class="loading"></div>`
		}
		markups = append(markups, markup)
		return markup
	}

	rec.Update()
	rec.Session().Wait()

	// The request only starts after the first write, so the loading
	// branch is always the first visible render.
	if markups[0] != `<div class="loading"></div>` {
		t.Fatalf("first render = %q, want loading branch", markups[0])
	}

	if rec.StateBool("loading") {
		t.Error("loading still true after fetch")
	}
	if el.HTML() != `<div class="ready"></div>` {
		t.Errorf("container HTML = %q after fetch", el.HTML())
	}
	data, _ := rec.StateValue("data")
	if m, ok := data.(map[string]any); !ok || m["title"] != "fetched" {
		t.Errorf("state data = %#v, want fetched payload", data)
	}
}

func TestFetchErrorBecomesState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	doc, el := NewTestDocument("page")
	rec := NewRecorder(NewTarget("page", doc, el, nil).UseAPI(APIDescriptor{
		URL: server.URL,
	}))

	rec.Update()
	rec.Session().Wait()

	errMsg, ok := rec.StateValue("error")
	if !ok || errMsg == "" {
		t.Errorf("state error = %#v, want message", errMsg)
	}
	if data, _ := rec.StateValue("data"); data != nil {
		t.Errorf("state data = %#v, want nil", data)
	}
	_ = el
}

func TestSessionWaitReleasedWithoutMount(t *testing.T) {
	doc, el := NewTestDocument("page")
	rec := NewRecorder(NewTarget("page", doc, el, nil).UseAPI(APIDescriptor{
		URL: "http://127.0.0.1:0",
	}))
	session := rec.Session()

	// Destroyed before any update: the request is never issued, but
	// waiters must still be released.
	rec.Destroy()

	released := make(chan struct{})
	go func() {
		session.Wait()
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() blocked on a session that never mounted")
	}
}

func TestFetchAfterDestroyIsDropped(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{}`))
	}))
	defer server.Close()
	defer close(release)

	doc, el := NewTestDocument("page")
	rec := NewRecorder(NewTarget("page", doc, el, nil).UseAPI(APIDescriptor{
		URL: server.URL,
	}))

	rec.Update()
	session := rec.Session()
	rec.Destroy()
	session.Wait()

	if fetched := rec.StateBool("fetched"); fetched {
		t.Error("destroyed component absorbed a fetch result")
	}
}
