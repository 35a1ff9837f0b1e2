package extractor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, extract http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/cv.pdf", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 resume"))
	})
	mux.HandleFunc("/files/missing.pdf", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/extract-skills", extract)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ExtractSkills(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		f, hdr, err := r.FormFile("resume")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4 resume", string(b))

		_ = json.NewEncoder(w).Encode(map[string]any{"extracted_skills": []string{"Go", " ", "docker "}})
	})

	c := NewClient(srv.URL+"/", time.Second, nil)
	skills, err := c.ExtractSkills(context.Background(), srv.URL+"/files/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "docker"}, skills)
}

func TestClient_ExtractorError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"unsupported file"}`))
	})

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.ExtractSkills(context.Background(), srv.URL+"/files/cv.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=422")
	assert.Contains(t, err.Error(), "unsupported file")
}

func TestClient_DownloadFailure(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("extractor must not be called")
	})

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.ExtractSkills(context.Background(), srv.URL+"/files/missing.pdf")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "download resume failed"))
}

func TestClient_InvalidInput(t *testing.T) {
	_, err := NewClient("", 0, nil).ExtractSkills(context.Background(), "https://x/cv.pdf")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient("http://localhost", 0, nil).ExtractSkills(context.Background(), "ftp://x/cv.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid resume url")
}
