package widget

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/evcraddock/parlante-widget/internal/client"
	"github.com/evcraddock/parlante-widget/internal/comment"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testEnv = client.Environment{Locale: "en-US", Timezone: "UTC"}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// newTestClient returns a service client whose connections are closed with the test.
func newTestClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()
	tr := &http.Transport{}
	t.Cleanup(tr.CloseIdleConnections)
	return client.New(baseURL, &http.Client{Transport: tr})
}

func textResponse(r *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func TestLoadCommentsTimeout(t *testing.T) {
	var gotURL, gotLang, gotTZ string
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		gotLang = r.Header.Get("Accepted-Language")
		gotTZ = r.Header.Get("X-Timezone")
		return nil, context.DeadlineExceeded
	})
	c := client.New("https://api.example.com", &http.Client{Transport: rt})
	page := newFakePage()

	w := New(c, "abc123", page)
	res := w.LoadComments(context.Background(), "comments-box")

	if gotURL != "https://api.example.com/comment/abc123/html" {
		t.Errorf("url = %q", gotURL)
	}
	if gotLang == "" || gotTZ == "" {
		t.Errorf("headers = %q, %q; want both non-empty", gotLang, gotTZ)
	}
	if got := page.innerOf("comments-box"); got != "Failed to load comments" {
		t.Errorf("container = %q", got)
	}
	if len(page.handlers) != 0 {
		t.Error("expected no submit handler after failed load")
	}
	if !errors.Is(res.Err, ErrLoadFailed) {
		t.Errorf("err = %v, want ErrLoadFailed", res.Err)
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want cause kept", res.Err)
	}
	if res.OK() || res.SubmitBound {
		t.Errorf("result = %+v", res)
	}
}

func TestLoadCommentsRendersBodyVerbatim(t *testing.T) {
	bodies := []string{
		"",
		"<div",
		"<p>unclosed <b>tags & stray </i>",
		`<div id="parlante-submit">Send</div><script>alert(1)</script>`,
	}
	statuses := []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError}

	for _, status := range statuses {
		for _, body := range bodies {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				if _, err := io.WriteString(w, body); err != nil {
					t.Errorf("write: %v", err)
				}
			}))

			page := newFakePage()
			w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv))
			res := w.LoadComments(context.Background(), "comments")
			srv.Close()

			if !res.OK() {
				t.Fatalf("status %d body %q: err = %v", status, body, res.Err)
			}
			if res.StatusCode != status {
				t.Errorf("status = %d, want %d", res.StatusCode, status)
			}
			if got := page.innerOf("comments"); got != body {
				t.Errorf("container = %q, want %q", got, body)
			}
		}
	}
}

func TestLoadCommentsSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/comment/thread-1/html" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accepted-Language"); got != "pt-BR" {
			t.Errorf("Accepted-Language = %q", got)
		}
		if got := r.Header.Get("X-Timezone"); got != "America/Sao_Paulo" {
			t.Errorf("X-Timezone = %q", got)
		}
	}))
	defer srv.Close()

	env := client.Environment{Locale: "pt-BR", Timezone: "America/Sao_Paulo"}
	w := New(newTestClient(t, srv.URL), "thread-1", newFakePage(), WithEnvironment(env))
	if res := w.LoadComments(context.Background(), "comments"); !res.OK() {
		t.Fatalf("load: %v", res.Err)
	}
}

func TestLoadCommentsBindsSubmit(t *testing.T) {
	var posted atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/comment/abc123/html":
			if _, err := io.WriteString(w, `<form id="parlante-add-comment"></form>`); err != nil {
				t.Errorf("write: %v", err)
			}
		case r.Method == "POST" && r.URL.Path == "/comment/abc123":
			posted.Add(1)
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	page := newFakePage()
	page.values["parlante-author"] = "ana"
	page.values["parlante-content"] = "hello"

	w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv))
	res := w.LoadComments(context.Background(), "comments")
	if !res.SubmitBound {
		t.Fatalf("expected submit bound, result = %+v", res)
	}

	if !page.click("parlante-submit") {
		t.Fatal("expected click handler on parlante-submit")
	}
	if posted.Load() != 1 {
		t.Errorf("posted = %d, want 1", posted.Load())
	}
	if got := page.displayOf("parlante-add-ok"); got != DisplayBlock {
		t.Errorf("success display = %q", got)
	}
}

func TestLoadCommentsHandlerSurvivesCanceledContext(t *testing.T) {
	var posted atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			posted.Add(1)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	page := newFakePage()
	w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv))
	if res := w.LoadComments(ctx, "comments"); !res.OK() {
		t.Fatalf("load: %v", res.Err)
	}
	cancel()

	page.click("parlante-submit")
	if posted.Load() != 1 {
		t.Errorf("posted = %d, want 1", posted.Load())
	}
}

func TestLoadCommentsWithoutSubmitTrigger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.WriteString(w, "<p>No comments.</p>"); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	defer srv.Close()

	page := newFakePage()
	page.missing["parlante-submit"] = true

	w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv))
	res := w.LoadComments(context.Background(), "comments")
	if !res.OK() {
		t.Fatalf("load: %v", res.Err)
	}
	if res.SubmitBound {
		t.Error("expected SubmitBound = false")
	}
	if got := page.innerOf("comments"); got != "<p>No comments.</p>" {
		t.Errorf("container = %q", got)
	}
}

func TestLoadCommentsMissingContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	page := newFakePage()
	page.missing["comments"] = true

	w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv))
	res := w.LoadComments(context.Background(), "comments")
	if !errors.Is(res.Err, ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", res.Err)
	}
	if errors.Is(res.Err, ErrLoadFailed) {
		t.Error("a completed fetch is not a load failure")
	}
}

func TestLoadCommentsSanitizer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `<div id="parlante-add-comment"><input id="parlante-author" type="text">` +
			`<button id="parlante-submit" onclick="steal()">Send</button></div><script>alert(1)</script>`
		if _, err := io.WriteString(w, body); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	defer srv.Close()

	page := newFakePage()
	w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv), WithSanitizer(NewSanitizer()))
	if res := w.LoadComments(context.Background(), "comments"); !res.OK() {
		t.Fatalf("load: %v", res.Err)
	}

	got := page.innerOf("comments")
	for _, gone := range []string{"<script", "onclick", "alert(1)"} {
		if strings.Contains(got, gone) {
			t.Errorf("sanitized content still contains %q: %s", gone, got)
		}
	}
	for _, kept := range []string{`id="parlante-submit"`, `id="parlante-author"`, "<button"} {
		if !strings.Contains(got, kept) {
			t.Errorf("sanitized content lost %q: %s", kept, got)
		}
	}
}

func TestSubmitCommentAnyStatusIsSuccess(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusForbidden, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		page := newFakePage()
		w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv))
		res := w.SubmitComment(context.Background())
		srv.Close()

		if !res.OK() {
			t.Fatalf("status %d: err = %v", status, res.Err)
		}
		if res.StatusCode != status {
			t.Errorf("status = %d, want %d", res.StatusCode, status)
		}
		if got := page.displayOf("parlante-add-comment"); got != DisplayNone {
			t.Errorf("status %d: form display = %q", status, got)
		}
		if got := page.displayOf("parlante-add-ok"); got != DisplayBlock {
			t.Errorf("status %d: success display = %q", status, got)
		}
		if got := page.displayOf("parlante-add-error"); got != "" {
			t.Errorf("status %d: error display touched: %q", status, got)
		}
	}
}

func TestSubmitCommentNetworkFailure(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	page := newFakePage()
	w := New(client.New("http://comments.invalid", &http.Client{Transport: rt}), "abc123", page, WithEnvironment(testEnv))

	res := w.SubmitComment(context.Background())
	if !errors.Is(res.Err, ErrSubmitFailed) {
		t.Errorf("err = %v, want ErrSubmitFailed", res.Err)
	}
	if got := page.displayOf("parlante-add-comment"); got != DisplayNone {
		t.Errorf("form display = %q", got)
	}
	if got := page.displayOf("parlante-add-error"); got != DisplayBlock {
		t.Errorf("error display = %q", got)
	}
	if got := page.displayOf("parlante-add-ok"); got != "" {
		t.Errorf("success display touched: %q", got)
	}
}

func TestSubmitCommentPayload(t *testing.T) {
	cases := []comment.Submission{
		{Name: "", Content: ""},
		{Name: `O'Brien "Bob"`, Content: `{"json": "inside"} \ backslash`},
		{Name: "Zoë", Content: "olá, 世界 🎉"},
	}

	for _, want := range cases {
		var got comment.Submission
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/comment/abc123" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode: %v", err)
			}
		}))

		page := newFakePage()
		page.values["parlante-author"] = want.Name
		page.values["parlante-content"] = want.Content

		w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv))
		res := w.SubmitComment(context.Background())
		srv.Close()

		if !res.OK() {
			t.Fatalf("submit: %v", res.Err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestSubmitCommentMissingInputs(t *testing.T) {
	var requests atomic.Int32
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		requests.Add(1)
		return textResponse(r, http.StatusCreated, ""), nil
	})

	page := newFakePage()
	page.missing["parlante-content"] = true

	w := New(client.New("http://comments.example", &http.Client{Transport: rt}), "abc123", page, WithEnvironment(testEnv))
	res := w.SubmitComment(context.Background())

	if !errors.Is(res.Err, ErrFormUnavailable) {
		t.Errorf("err = %v, want ErrFormUnavailable", res.Err)
	}
	if requests.Load() != 0 {
		t.Errorf("requests = %d, want 0", requests.Load())
	}
	if len(page.display) != 0 {
		t.Errorf("display changed: %v", page.display)
	}
}

func TestSubmitCommentRetryAfterFailure(t *testing.T) {
	var calls atomic.Int32
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("timeout")
		}
		return textResponse(r, http.StatusCreated, `{"msg":"Ok"}`), nil
	})

	page := newFakePage()
	w := New(client.New("http://comments.example", &http.Client{Transport: rt}), "abc123", page, WithEnvironment(testEnv))

	if res := w.SubmitComment(context.Background()); res.OK() {
		t.Fatal("expected first submission to fail")
	}
	res := w.SubmitComment(context.Background())
	if !res.OK() {
		t.Fatalf("second submission: %v", res.Err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if got := page.displayOf("parlante-add-ok"); got != DisplayBlock {
		t.Errorf("success display = %q", got)
	}
}

func TestSubmitCommentOverlappingClicksShareRequest(t *testing.T) {
	arrived := make(chan struct{}, 2)
	release := make(chan struct{})
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		arrived <- struct{}{}
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	page := newFakePage()
	w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv))

	results := make([]SubmitResult, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = w.SubmitComment(context.Background())
	}()
	<-arrived

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = w.SubmitComment(context.Background())
	}()
	// Give the second click time to join the in-flight call.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if requests.Load() != 1 {
		t.Errorf("requests = %d, want 1", requests.Load())
	}
	for i, res := range results {
		if !res.OK() || res.StatusCode != http.StatusCreated {
			t.Errorf("result[%d] = %+v", i, res)
		}
	}
	if !results[1].Shared {
		t.Error("expected second click to share the first request")
	}
}

func TestCustomElementIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ids := ElementIDs{
		Submit:  "send",
		Author:  "who",
		Content: "what",
		Form:    "form",
		Success: "yay",
		Error:   "nay",
	}
	page := newFakePage()
	page.values["who"] = "ana"

	w := New(newTestClient(t, srv.URL), "abc123", page, WithEnvironment(testEnv), WithElementIDs(ids))
	if w.ElementIDs() != ids {
		t.Errorf("ids = %+v", w.ElementIDs())
	}
	if res := w.LoadComments(context.Background(), "box"); !res.SubmitBound {
		t.Fatalf("load: %+v", res)
	}
	if !page.click("send") {
		t.Fatal("expected handler on custom submit id")
	}
	if page.displayOf("form") != DisplayNone || page.displayOf("yay") != DisplayBlock {
		t.Errorf("display = %v", page.display)
	}
}
