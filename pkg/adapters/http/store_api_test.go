package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestStoreAPI_CreateAndGet(t *testing.T) {
	handler := newStoreTestHandler(t)

	rr := serve(t, handler, "POST", "/api/application", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"application_id": 1}`, rr.Body.String())

	rr = serve(t, handler, "GET", "/api/application/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"application_id": 1,
		"current_page": "patient_age",
		"application_submitted": false,
		"patient_age": null,
		"patient_gender": null,
		"therapist_minority_competence": []
	}`, rr.Body.String())
}

func TestStoreAPI_PatchMergesFields(t *testing.T) {
	store := memory.NewStore()
	handler, err := NewStoreHandler(store)
	require.NoError(t, err)

	id, err := store.Create(context.Background())
	require.NoError(t, err)

	rr := serve(t, handler, "PATCH", "/api/application/"+id,
		`{"current_page": "patient_gender", "patient_age": "26-35"}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = serve(t, handler, "PATCH", "/api/application/"+id,
		`{"therapist_minority_competence_responses": ["rbts", "lgbtq", "rbts"]}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rec, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepGender, rec.CurrentStep)
	require.NotNil(t, rec.AgeBracket)
	assert.Equal(t, domain.Age26To35, *rec.AgeBracket)
	assert.Equal(t, []domain.Competence{domain.CompetenceLGBTQ, domain.CompetenceRBTS}, rec.Competences)
}

func TestStoreAPI_PatchAcceptsCanonicalStepNames(t *testing.T) {
	store := memory.NewStore()
	handler, err := NewStoreHandler(store)
	require.NoError(t, err)
	id, _ := store.Create(context.Background())

	rr := serve(t, handler, "PATCH", "/api/application/"+id, `{"current_page": "preferences"}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = serve(t, handler, "GET", "/api/application/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "therapist_minority_competence", got["current_page"])
}

func TestStoreAPI_Submit(t *testing.T) {
	store := memory.NewStore()
	handler, err := NewStoreHandler(store)
	require.NoError(t, err)
	id, _ := store.Create(context.Background())

	rr := serve(t, handler, "PATCH", "/api/application/"+id,
		`{"current_page": "review", "application_submitted": true}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = serve(t, handler, "GET", "/api/application", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"applications": [
		{"application_id": 1, "current_page": "review", "application_submitted": true}
	]}`, rr.Body.String())
}

func TestStoreAPI_PatchRejections(t *testing.T) {
	store := memory.NewStore()
	handler, err := NewStoreHandler(store)
	require.NoError(t, err)
	id, _ := store.Create(context.Background())

	cases := map[string]string{
		"unknown field":  `{"payment": "card"}`,
		"unsubmit":       `{"application_submitted": false}`,
		"unknown page":   `{"current_page": "payment"}`,
		"bad age":        `{"patient_age": "7-11"}`,
		"bad competence": `{"therapist_minority_competence_responses": ["astrology"]}`,
		"wrong type":     `{"patient_gender": 3}`,
		"not an object":  `["patient_age"]`,
		"malformed json": `{"patient_age": `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := serve(t, handler, "PATCH", "/api/application/"+id, body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeBody[errorResponse](t, rr)
			assert.Equal(t, codeInvalidPatch, resp.Code)
		})
	}

	rec, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.NewRecord(id), rec, "rejected patches must not be applied")
}

func TestStoreAPI_NotFound(t *testing.T) {
	handler := newStoreTestHandler(t)

	rr := serve(t, handler, "GET", "/api/application/42", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, codeNotFound, decodeBody[errorResponse](t, rr).Code)

	rr = serve(t, handler, "PATCH", "/api/application/42", `{"current_page": "patient_gender"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, codeNotFound, decodeBody[errorResponse](t, rr).Code)
}

func TestStoreStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrRecordNotFound, http.StatusNotFound, codeNotFound},
		{domain.CorruptRecordError("1", domain.ErrInvalidStep), http.StatusInternalServerError, codeCorrupt},
		{domain.ErrInvalidPatch, http.StatusBadRequest, codeInvalidPatch},
		{domain.ErrInvalidStep, http.StatusBadRequest, codeInvalidPatch},
		{&domain.AnswerError{Field: domain.FieldAgeBracket, Value: "x"}, http.StatusBadRequest, codeInvalidPatch},
		{domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeUnavailable},
		{assert.AnError, http.StatusInternalServerError, codeInternal},
	}
	for _, tc := range cases {
		status, code := storeStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}
