package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	netmail "net/mail"
	"strings"
	"testing"

	"github.com/amityadav/newsdigest/internal/mail"
	"github.com/amityadav/newsdigest/internal/search"
	gm "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func decodeRaw(t *testing.T, raw string) *netmail.Message {
	t.Helper()
	b, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("raw is not base64url: %v", err)
	}
	msg, err := netmail.ReadMessage(strings.NewReader(string(b)))
	if err != nil {
		t.Fatalf("raw is not a valid message: %v", err)
	}
	return msg
}

func TestBuildRaw_HTML(t *testing.T) {
	raw, err := buildRaw(mail.Message{
		To:      "someone@example.com",
		Subject: "Roblox News Digest - 2 stories in the last 4 hours",
		Body:    `<html><body><div class="header"><p>Generated now</p></div></body></html>`,
		IsHTML:  true,
	})
	if err != nil {
		t.Fatalf("buildRaw failed: %v", err)
	}

	msg := decodeRaw(t, raw)
	if got := msg.Header.Get("To"); got != "someone@example.com" {
		t.Errorf("To = %q", got)
	}
	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	if err != nil || subject != "Roblox News Digest - 2 stories in the last 4 hours" {
		t.Errorf("Subject = %q (%v)", subject, err)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/alternative" {
		t.Fatalf("Content-Type = %q (%v)", mediaType, err)
	}

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var types []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart failed: %v", err)
		}
		ct, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		types = append(types, ct)
		body, _ := io.ReadAll(part)
		if ct == "text/plain" && !strings.Contains(string(body), "Generated now") {
			t.Errorf("text part = %q", body)
		}
	}
	if strings.Join(types, ",") != "text/plain,text/html" {
		t.Errorf("parts = %v, want text/plain then text/html", types)
	}
}

func TestBuildRaw_PlainText(t *testing.T) {
	raw, err := buildRaw(mail.Message{To: "a@b.test", Subject: "hi", Body: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	msg := decodeRaw(t, raw)
	if ct, _, _ := mime.ParseMediaType(msg.Header.Get("Content-Type")); ct != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}

func TestSender_DraftAndSend(t *testing.T) {
	var created, sent gm.Draft
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/users/me/drafts"):
			json.NewDecoder(r.Body).Decode(&created)
			w.Write([]byte(`{"id": "d-1", "message": {"id": "m-0"}}`))
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/users/me/drafts/send"):
			json.NewDecoder(r.Body).Decode(&sent)
			w.Write([]byte(`{"id": "m-1", "threadId": "t-1"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	s, err := NewSenderWithClient(ctx, srv.Client(), "", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewSenderWithClient failed: %v", err)
	}

	id, err := s.CreateDraft(ctx, search.Session{}, mail.Message{To: "a@b.test", Subject: "s", Body: "<p>x</p>", IsHTML: true})
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	if id != "d-1" {
		t.Errorf("draft id = %q, want d-1", id)
	}
	if created.Message == nil || created.Message.Raw == "" {
		t.Error("draft request carried no raw message")
	}

	if err := s.SendDraft(ctx, search.Session{}, id); err != nil {
		t.Fatalf("SendDraft failed: %v", err)
	}
	if sent.Id != "d-1" {
		t.Errorf("sent draft id = %q, want d-1", sent.Id)
	}
}

func TestSender_CreateDraft_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "insufficient scope"}}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	s, err := NewSenderWithClient(ctx, srv.Client(), "me", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateDraft(ctx, search.Session{}, mail.Message{Body: "x"}); err == nil {
		t.Error("expected error for 403 response")
	}
}
