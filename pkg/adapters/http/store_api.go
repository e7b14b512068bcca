package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/intake/pkg/adapters/http/storeapi"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

const maxPatchBytes = 64 << 10

//go:generate go tool oapi-codegen -config storeapi/oapi-codegen.yaml openapi.yaml

// StoreServer exposes a RecordStore over the record store REST API.
type StoreServer struct {
	store  ports.RecordStore
	logger *slog.Logger
	schema *gojsonschema.Schema
}

// Ensure StoreServer implements the generated storeapi.ServerInterface
var _ storeapi.ServerInterface = (*StoreServer)(nil)

// NewStoreHandler creates the HTTP handler of the record store API.
func NewStoreHandler(store ports.RecordStore, opts ...ServerOption) (http.Handler, error) {
	cfg := newServerConfig("intake-store", opts)

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(patchSchema()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile patch schema: %w", err)
	}

	s := &StoreServer{store: store, logger: cfg.logger, schema: schema}

	r, err := newRouter(cfg)
	if err != nil {
		return nil, err
	}
	return storeapi.HandlerWithOptions(s, storeapi.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: paramError,
	}), nil
}

// ListApplicationRecords handles the GET /api/application request.
func (s *StoreServer) ListApplicationRecords(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, "list", err)
		return
	}

	resp := storeapi.ApplicationList{Applications: make([]storeapi.Summary, 0, len(summaries))}
	for _, sum := range summaries {
		item, err := toSummary(sum)
		if err != nil {
			s.fail(w, "list", err)
			return
		}
		resp.Applications = append(resp.Applications, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateApplicationRecord handles the POST /api/application request.
func (s *StoreServer) CreateApplicationRecord(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.Create(r.Context())
	if err != nil {
		s.fail(w, "create", err)
		return
	}
	wid, err := wireID(id)
	if err != nil {
		s.fail(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, storeapi.Created{ApplicationId: wid})
}

// GetApplicationRecord handles the GET /api/application/{id} request.
func (s *StoreServer) GetApplicationRecord(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, "get", err)
		return
	}
	resp, err := toApplicationRecord(rec)
	if err != nil {
		s.fail(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PatchApplicationRecord handles the PATCH /api/application/{id} request.
func (s *StoreServer) PatchApplicationRecord(w http.ResponseWriter, r *http.Request, id string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPatchBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidPatch, fmt.Errorf("%w: %w", domain.ErrInvalidPatch, err))
		return
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidPatch, fmt.Errorf("%w: %w", domain.ErrInvalidPatch, err))
		return
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		s.logger.Warn("patch rejected", "application_id", id, "violations", len(errs))
		writeError(w, http.StatusBadRequest, codeInvalidPatch,
			fmt.Errorf("%w: %s", domain.ErrInvalidPatch, strings.Join(errs, "; ")))
		return
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidPatch, fmt.Errorf("%w: %w", domain.ErrInvalidPatch, err))
		return
	}
	var payload storeapi.PatchApplicationRecordJSONRequestBody
	if err := decodePatch(raw, &payload); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidPatch, fmt.Errorf("%w: %w", domain.ErrInvalidPatch, err))
		return
	}
	patch, err := patchFromWire(payload)
	if err != nil {
		s.fail(w, "patch", err)
		return
	}

	if err := s.store.Patch(r.Context(), id, patch); err != nil {
		s.fail(w, "patch", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *StoreServer) fail(w http.ResponseWriter, op string, err error) {
	status, code := storeStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("store request failed", "op", op, "error", err)
	}
	writeError(w, status, code, err)
}

// decodePatch maps a schema-checked body onto the generated model by its json tags.
func decodePatch(raw map[string]any, out *storeapi.RecordPatch) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// patchSchema describes the PATCH body. Enumerations come from the domain so
// the schema cannot drift from the values the store accepts.
func patchSchema() map[string]any {
	var pages []any
	seen := map[string]bool{}
	for _, s := range domain.Steps() {
		for _, name := range []string{s.String(), s.PageName()} {
			if !seen[name] {
				seen[name] = true
				pages = append(pages, name)
			}
		}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"current_page": map[string]any{
				"type": "string",
				"enum": pages,
			},
			"application_submitted": map[string]any{
				"type": "boolean",
				"enum": []any{true},
			},
			"patient_age": map[string]any{
				"type": "string",
				"enum": toAny(domain.FieldAgeBracket.Options()),
			},
			"patient_gender": map[string]any{
				"type": "string",
				"enum": toAny(domain.FieldGenderIdentity.Options()),
			},
			"therapist_minority_competence_responses": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
					"enum": toAny(domain.FieldCompetencePreferences.Options()),
				},
			},
		},
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
