package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/chatsieve/chatsieve/internal/chatlog"
	"github.com/chatsieve/chatsieve/internal/filter"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := chatlog.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	msgs := make([]chatlog.Message, 20)
	for i := range msgs {
		content := fmt.Sprintf("message %d", i)
		if i == 10 {
			content = "the vacation plan"
		}
		msgs[i] = chatlog.Message{
			ID:         fmt.Sprintf("m%d", i),
			SenderID:   "u1",
			SenderName: "ann",
			Content:    content,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Kind:       chatlog.KindText,
		}
	}
	if err := store.ImportMessages(context.Background(), chatlog.Chat{ID: "family", Name: "Family"}, msgs); err != nil {
		t.Fatalf("import: %v", err)
	}

	return New(Config{Addr: "127.0.0.1:0"}, store, filter.NewLocal(store))
}

func TestAPIChats(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Chats []chatlog.Chat `json:"chats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Chats) != 1 || resp.Chats[0].ID != "family" {
		t.Fatalf("unexpected chats: %+v", resp.Chats)
	}
}

func TestAPIFilter(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(filter.Condition{
		ChatID:      "family",
		Keywords:    []string{"vacation"},
		ContextSize: 2,
	})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/filter", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var res chatlog.FilterResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := res.Validate(); err != nil {
		t.Fatalf("stats invariant over the wire: %v", err)
	}
	if len(res.Blocks) != 1 || res.Stats.HitMessages != 1 {
		t.Fatalf("unexpected result: %+v", res.Stats)
	}
	if len(res.Blocks[0].Messages) != 5 {
		t.Fatalf("context size not honored: %d messages", len(res.Blocks[0].Messages))
	}
}

func TestAPIFilterValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", "{", http.StatusBadRequest},
		{"missing chat id", `{"keywords":["x"]}`, http.StatusBadRequest},
		{"empty condition", `{"chat_id":"family"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/filter", bytes.NewReader([]byte(tc.body))))
			if rec.Code != tc.want {
				t.Fatalf("status %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestAPIFilterSessions(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/filter/sessions",
		bytes.NewReader([]byte(`{"chat_id":"family","session_ids":[1]}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var res chatlog.FilterResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Blocks) != 1 || res.Stats.HitMessages != 0 {
		t.Fatalf("unexpected result: %+v", res.Stats)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/filter/sessions",
		bytes.NewReader([]byte(`{"chat_id":"family","session_ids":[99]}`))))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session should 404, got %d", rec.Code)
	}
}

func TestAPISessionsMembersTimeRange(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats/family/sessions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("sessions status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats/family/members", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("members status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats/family/timerange", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("timerange status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats/ghost/timerange", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown chat timerange should 404, got %d", rec.Code)
	}
}

func TestAPIHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/version"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status %d", path, rec.Code)
		}
	}
}
