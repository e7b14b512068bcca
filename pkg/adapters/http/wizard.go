package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/intake/pkg/adapters/http/wizardapi"
	"github.com/aretw0/intake/pkg/domain"
)

//go:generate go tool oapi-codegen -config wizardapi/oapi-codegen.yaml openapi.yaml

// Wizard defines the progress engine operations served by the wizard API.
type Wizard interface {
	Start(ctx context.Context) (domain.Record, error)
	Load(ctx context.Context, id string) (domain.Record, error)
	SaveField(ctx context.Context, id string, field domain.Field, values []string) (domain.Record, error)
	CommitStep(ctx context.Context, id string, step domain.Step, values []string) (domain.Record, error)
	Back(ctx context.Context, id string) (domain.Retreat, error)
	Submit(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context) ([]domain.Summary, error)
}

// LandingPath is where exits and submissions send the applicant.
const LandingPath = "/applications"

// StepPath returns the page location of step for application id.
func StepPath(id string, step domain.Step) string {
	return fmt.Sprintf("%s/%s/steps/%s", LandingPath, id, step)
}

// BackPath returns the location of the back action for application id.
// It is a POST: going back moves the application.
func BackPath(id string) string {
	return fmt.Sprintf("%s/%s/back", LandingPath, id)
}

// WizardServer exposes the wizard actions over HTTP.
type WizardServer struct {
	wizard Wizard
	logger *slog.Logger
}

// Ensure WizardServer implements the generated wizardapi.ServerInterface
var _ wizardapi.ServerInterface = (*WizardServer)(nil)

// NewWizardHandler creates the HTTP handler of the wizard API.
func NewWizardHandler(wizard Wizard, opts ...ServerOption) (http.Handler, error) {
	cfg := newServerConfig("intake-wizard", opts)
	s := &WizardServer{wizard: wizard, logger: cfg.logger}

	r, err := newRouter(cfg)
	if err != nil {
		return nil, err
	}
	return wizardapi.HandlerWithOptions(s, wizardapi.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: paramError,
	}), nil
}

type answersJSON struct {
	AgeBracket            []string `json:"age_bracket"`
	GenderIdentity        []string `json:"gender_identity"`
	CompetencePreferences []string `json:"competence_preferences"`
}

type applicationView struct {
	ID          string          `json:"id"`
	CurrentStep string          `json:"current_step"`
	Submitted   bool            `json:"submitted"`
	Progress    domain.Progress `json:"progress"`
	Answers     answersJSON     `json:"answers"`
}

type landingItem struct {
	ID          string          `json:"id"`
	CurrentStep string          `json:"current_step"`
	Submitted   bool            `json:"submitted"`
	Progress    domain.Progress `json:"progress"`
	Resume      string          `json:"resume,omitempty"`
}

type stepPage struct {
	ApplicationID string          `json:"application_id"`
	Step          string          `json:"step"`
	Progress      domain.Progress `json:"progress"`
	Field         string          `json:"field,omitempty"`
	Multiple      bool            `json:"multiple,omitempty"`
	Options       []string        `json:"options,omitempty"`
	Values        []string        `json:"values,omitempty"`
	Review        *answersJSON    `json:"review,omitempty"`
	Back          string          `json:"back"`
	Exit          string          `json:"exit"`
}

type actionResponse struct {
	Application *applicationView `json:"application,omitempty"`
	Redirect    string           `json:"redirect"`
	Exit        bool             `json:"exit,omitempty"`
}

func answersOf(rec domain.Record) answersJSON {
	return answersJSON{
		AgeBracket:            rec.Values(domain.FieldAgeBracket),
		GenderIdentity:        rec.Values(domain.FieldGenderIdentity),
		CompetencePreferences: rec.Values(domain.FieldCompetencePreferences),
	}
}

func viewOf(rec domain.Record) (*applicationView, error) {
	progress, err := domain.ProgressOf(rec.CurrentStep)
	if err != nil {
		return nil, domain.CorruptRecordError(rec.ID, err)
	}
	return &applicationView{
		ID:          rec.ID,
		CurrentStep: rec.CurrentStep.String(),
		Submitted:   rec.Submitted,
		Progress:    progress,
		Answers:     answersOf(rec),
	}, nil
}

// ListApplications handles the GET /applications request.
func (s *WizardServer) ListApplications(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.wizard.List(r.Context())
	if err != nil {
		s.fail(w, "list", err)
		return
	}

	items := make([]landingItem, 0, len(summaries))
	for _, sum := range summaries {
		progress, err := domain.ProgressOf(sum.CurrentStep)
		if err != nil {
			s.fail(w, "list", domain.CorruptRecordError(sum.ID, err))
			return
		}
		item := landingItem{
			ID:          sum.ID,
			CurrentStep: sum.CurrentStep.String(),
			Submitted:   sum.Submitted,
			Progress:    progress,
		}
		if !sum.Submitted {
			item.Resume = StepPath(sum.ID, sum.CurrentStep)
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": items})
}

// StartApplication handles the POST /applications request.
func (s *WizardServer) StartApplication(w http.ResponseWriter, r *http.Request) {
	rec, err := s.wizard.Start(r.Context())
	if err != nil {
		s.fail(w, "start", err)
		return
	}
	s.respond(w, http.StatusCreated, rec, StepPath(rec.ID, rec.CurrentStep))
}

// GetApplication handles the GET /applications/{id} request.
func (s *WizardServer) GetApplication(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.wizard.Load(r.Context(), id)
	if err != nil {
		s.fail(w, "load", err)
		return
	}
	redirect := LandingPath
	if !rec.Submitted {
		redirect = StepPath(rec.ID, rec.CurrentStep)
	}
	s.respond(w, http.StatusOK, rec, redirect)
}

// GetStep handles the GET /applications/{id}/steps/{step} request.
func (s *WizardServer) GetStep(w http.ResponseWriter, r *http.Request, id string, stepName string) {
	step, err := domain.ParseStep(stepName)
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, err)
		return
	}
	rec, err := s.wizard.Load(r.Context(), id)
	if err != nil {
		s.fail(w, "load", err)
		return
	}
	if !rec.Reached(step) {
		s.fail(w, "step", fmt.Errorf("%w: application is on %s", domain.ErrStepNotReached, rec.CurrentStep))
		return
	}

	progress, err := domain.ProgressOf(rec.CurrentStep)
	if err != nil {
		s.fail(w, "step", domain.CorruptRecordError(rec.ID, err))
		return
	}
	page := stepPage{
		ApplicationID: rec.ID,
		Step:          step.String(),
		Progress:      progress,
		Exit:          LandingPath,
		Back:          LandingPath,
	}
	if prev, err := step.Previous(); err == nil && !prev.Exit() {
		page.Back = BackPath(rec.ID)
	}
	if field, ok := step.Field(); ok {
		page.Field = field.String()
		page.Multiple = field.Multiple()
		page.Options = field.Options()
		page.Values = rec.Values(field)
	} else {
		review := answersOf(rec)
		page.Review = &review
	}
	writeJSON(w, http.StatusOK, page)
}

// SaveAnswer handles the PUT /applications/{id}/answers/{field} request.
func (s *WizardServer) SaveAnswer(w http.ResponseWriter, r *http.Request, id string, fieldName string) {
	field, err := domain.ParseField(fieldName)
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, err)
		return
	}
	var body wizardapi.SaveAnswerJSONRequestBody
	if err := decodeAnswer(r, &body, true); err != nil {
		s.fail(w, "save_answer", err)
		return
	}

	rec, err := s.wizard.SaveField(r.Context(), id, field, valuesOf(body))
	if err != nil {
		s.fail(w, "save_answer", err)
		return
	}
	s.respond(w, http.StatusOK, rec, "")
}

// CommitStep handles the POST /applications/{id}/steps/{step}/next request.
func (s *WizardServer) CommitStep(w http.ResponseWriter, r *http.Request, id string, stepName string) {
	step, err := domain.ParseStep(stepName)
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, err)
		return
	}
	var body wizardapi.CommitStepJSONRequestBody
	if err := decodeAnswer(r, &body, false); err != nil {
		s.fail(w, "commit", err)
		return
	}

	rec, err := s.wizard.CommitStep(r.Context(), id, step, valuesOf(body))
	if err != nil {
		s.fail(w, "commit", err)
		return
	}
	s.respond(w, http.StatusOK, rec, StepPath(rec.ID, rec.CurrentStep))
}

// Back handles the POST /applications/{id}/back request.
func (s *WizardServer) Back(w http.ResponseWriter, r *http.Request, id string) {
	ret, err := s.wizard.Back(r.Context(), id)
	if err != nil {
		s.fail(w, "back", err)
		return
	}
	prev, ok := ret.Step()
	if !ok {
		writeJSON(w, http.StatusOK, actionResponse{Redirect: LandingPath, Exit: true})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Redirect: StepPath(id, prev)})
}

// Submit handles the POST /applications/{id}/submit request.
func (s *WizardServer) Submit(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.wizard.Submit(r.Context(), id)
	if err != nil {
		s.fail(w, "submit", err)
		return
	}
	s.respond(w, http.StatusOK, rec, LandingPath)
}

// Exit handles the POST /applications/{id}/exit request. Progress is already
// persisted, so nothing is written.
func (s *WizardServer) Exit(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := s.wizard.Load(r.Context(), id); err != nil {
		s.fail(w, "exit", err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Redirect: LandingPath, Exit: true})
}

func (s *WizardServer) respond(w http.ResponseWriter, status int, rec domain.Record, redirect string) {
	view, err := viewOf(rec)
	if err != nil {
		s.fail(w, "render", err)
		return
	}
	writeJSON(w, status, actionResponse{Application: view, Redirect: redirect})
}

func (s *WizardServer) fail(w http.ResponseWriter, op string, err error) {
	status, code := wizardStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("wizard request failed", "op", op, "error", err)
	}
	writeError(w, status, code, err)
}

// decodeAnswer reads an answer body. An empty body is accepted unless required.
func decodeAnswer(r *http.Request, body *wizardapi.Answer, required bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxPatchBytes)).Decode(body)
	if errors.Is(err, io.EOF) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidAnswer, err)
	}
	return nil
}

func valuesOf(a wizardapi.Answer) []string {
	if a.Values == nil {
		return nil
	}
	return *a.Values
}
