package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/evcraddock/parlante-widget/internal/comment"
)

const threadFragment = `<h3>Comments (1)</h3>
<div class="parlante-comment"><b>ana</b><p>first!</p></div>
<div id="parlante-add-comment">
  <input id="parlante-author" type="text">
  <textarea id="parlante-content"></textarea>
  <button id="parlante-submit">Send comment</button>
</div>
<div id="parlante-add-ok" style="display: none">Comment sent. Thank you!</div>
<div id="parlante-add-error" style="display: none">Error sending comment.</div>`

// fakeService imitates the parlante comment service for one client id.
type fakeService struct {
	clientID   string
	fragment   string
	postStatus int

	mu      sync.Mutex
	posted  []comment.Submission
	lastReq http.Header
}

func newFakeService(t *testing.T, clientID string) (*fakeService, *httptest.Server) {
	t.Helper()
	fs := &fakeService{clientID: clientID, fragment: threadFragment, postStatus: http.StatusCreated}
	srv := httptest.NewServer(fs.handler(t))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	base := "/comment/" + fs.clientID

	mux.HandleFunc("GET "+base+"/html", func(w http.ResponseWriter, r *http.Request) {
		fs.record(r)
		w.Header().Set("Content-Type", "text/html")
		if _, err := io.WriteString(w, fs.fragment); err != nil {
			t.Errorf("write: %v", err)
		}
	})
	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		fs.record(r)
		var sub comment.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "Malformed json", http.StatusBadRequest)
			return
		}
		fs.mu.Lock()
		fs.posted = append(fs.posted, sub)
		fs.mu.Unlock()
		w.WriteHeader(fs.postStatus)
	})
	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		fs.record(r)
		writeJSON(t, w, comment.Thread{
			Total:    1,
			Comments: []comment.Comment{{Author: "ana", Content: "first!", Timestamp: 1700000000}},
		})
	})
	mux.HandleFunc("POST "+base+"/count", func(w http.ResponseWriter, r *http.Request) {
		fs.record(r)
		var req comment.CountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Malformed json", http.StatusBadRequest)
			return
		}
		resp := comment.CountResponse{Total: len(req.PageURLs)}
		for _, u := range req.PageURLs {
			resp.CommentCount = append(resp.CommentCount, comment.PageCount{PageURL: u, Count: 3})
		}
		writeJSON(t, w, resp)
	})
	return mux
}

func (fs *fakeService) record(r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.lastReq = r.Header.Clone()
}

func (fs *fakeService) submissions() []comment.Submission {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]comment.Submission(nil), fs.posted...)
}

func (fs *fakeService) lastHeaders() http.Header {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lastReq
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}
