package disk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return New(server.URL, "test-token", 5*time.Second), server
}

func TestCheckAccess(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "OAuth test-token" {
			t.Errorf("Authorization = %s, want %s", got, "OAuth test-token")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := client.CheckAccess(context.Background()); err != nil {
		t.Errorf("CheckAccess() error = %v, want nil", err)
	}
}

func TestCheckAccessRejected(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	if err := client.CheckAccess(context.Background()); err == nil {
		t.Error("CheckAccess() error = nil, want error for 401")
	}
}

func TestEnsureFolder(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"Created", http.StatusCreated, false},
		{"Already exists", http.StatusConflict, false},
		{"Forbidden", http.StatusForbidden, true},
		{"Server error", http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != "/resources" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				if got := r.URL.Query().Get("path"); got != "DogImages/husky" {
					t.Errorf("path = %s, want %s", got, "DogImages/husky")
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := client.EnsureFolder(context.Background(), "DogImages/husky")
			if (err != nil) != tt.wantErr {
				t.Errorf("EnsureFolder() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureFolderIdempotent(t *testing.T) {
	calls := 0
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusCreated)
		} else {
			w.WriteHeader(http.StatusConflict)
		}
	}))
	defer server.Close()

	if err := client.EnsureFolder(context.Background(), "DogImages"); err != nil {
		t.Errorf("first EnsureFolder() error = %v, want nil", err)
	}
	if err := client.EnsureFolder(context.Background(), "DogImages"); err != nil {
		t.Errorf("second EnsureFolder() error = %v, want nil", err)
	}
}

func TestUploadFromURLRemoteFetch(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/resources/upload" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("url"); got != "https://images.dog.ceo/pug_1.jpg" {
			t.Errorf("url = %s, want source URL", got)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	info, err := client.UploadFromURL(context.Background(), "https://images.dog.ceo/pug_1.jpg", "DogImages/pug/pug_pug_1.jpg")
	if err != nil {
		t.Fatalf("UploadFromURL() error = %v", err)
	}

	if info.Status != "uploaded_remote" {
		t.Errorf("Status = %s, want %s", info.Status, "uploaded_remote")
	}
	if info.Method != "remote_upload" {
		t.Errorf("Method = %s, want %s", info.Method, "remote_upload")
	}
	if info.DiskPath != "DogImages/pug/pug_pug_1.jpg" {
		t.Errorf("DiskPath = %s", info.DiskPath)
	}
}

func TestUploadFromURLFallback(t *testing.T) {
	content := []byte("fake image bytes")
	var uploaded []byte

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			// remote fetch unsupported; forces the fallback
			w.WriteHeader(http.StatusBadRequest)
		case http.MethodGet:
			if got := r.URL.Query().Get("overwrite"); got != "true" {
				t.Errorf("overwrite = %s, want true", got)
			}
			fmt.Fprintf(w, `{"href":"%s/upload-target"}`, server.URL)
		}
	})
	mux.HandleFunc("/source/pug_1.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	})
	mux.HandleFunc("/upload-target", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("upload method = %s, want PUT", r.Method)
		}
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	client := New(server.URL, "test-token", 5*time.Second)

	info, err := client.UploadFromURL(context.Background(), server.URL+"/source/pug_1.jpg", "DogImages/pug/pug_pug_1.jpg")
	if err != nil {
		t.Fatalf("UploadFromURL() error = %v", err)
	}

	if info.Status != "uploaded" {
		t.Errorf("Status = %s, want %s", info.Status, "uploaded")
	}
	if info.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", info.Size, len(content))
	}
	if string(uploaded) != string(content) {
		t.Errorf("uploaded bytes = %q, want %q", uploaded, content)
	}
}

func TestUploadFromURLFallbackFailure(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// both remote fetch and upload URL requests fail
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := client.UploadFromURL(context.Background(), "https://images.dog.ceo/pug_1.jpg", "DogImages/pug/x.jpg"); err == nil {
		t.Error("UploadFromURL() error = nil, want error when both phases fail")
	}
}
