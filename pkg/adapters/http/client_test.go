package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Contract(t *testing.T) {
	handler, err := NewStoreHandler(memory.NewStore())
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	ports.RunRecordStoreContract(t, NewClient(srv.URL))
}

func TestClient_SendsWireNames(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/application/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-Id"))
		assert.NoError(t, err, "request id must be a uuid")

		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	set := []domain.Competence{domain.CompetenceRBTS, domain.CompetenceLGBTQ}
	err := NewClient(srv.URL+"/").Patch(context.Background(), "7", domain.Patch{
		Step:        domain.Ptr(domain.StepPreferences),
		AgeBracket:  domain.Ptr(domain.Age18To25),
		Competences: &set,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"current_page": "therapist_minority_competence",
		"patient_age":  "18-25",
		"therapist_minority_competence_responses": []any{"lgbtq", "rbts"},
	}, body)
}

func TestClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found code", http.StatusNotFound, `{"error":"gone","code":"not_found"}`, domain.ErrRecordNotFound},
		{"bare 404", http.StatusNotFound, `404 page not found`, domain.ErrRecordNotFound},
		{"corrupt", http.StatusInternalServerError, `{"error":"bad step","code":"corrupt_record"}`, domain.ErrCorruptRecord},
		{"invalid patch", http.StatusBadRequest, `{"error":"nope","code":"invalid_patch"}`, domain.ErrInvalidPatch},
		{"unavailable", http.StatusServiceUnavailable, `{"error":"down","code":"unavailable"}`, domain.ErrStoreUnavailable},
		{"internal", http.StatusInternalServerError, ``, domain.ErrStoreUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Get(context.Background(), "1")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClient_CorruptPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"application_id": 1, "current_page": "payment", "application_submitted": false}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Get(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrCorruptRecord)
	assert.ErrorIs(t, err, domain.ErrInvalidStep)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, WithTimeout(time.Second))
	_, err := client.Create(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = client.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestClient_InvalidPatchNeverSent(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Patch(context.Background(), "1", domain.Patch{Step: domain.Ptr(domain.Step(9))})
	assert.ErrorIs(t, err, domain.ErrInvalidStep)
	assert.False(t, called)
}
