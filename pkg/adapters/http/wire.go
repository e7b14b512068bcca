package http

import (
	"fmt"
	"strconv"

	"github.com/aretw0/intake/pkg/adapters/http/storeapi"
	"github.com/aretw0/intake/pkg/domain"
)

// Conversions between domain types and the generated store API models. Field
// names match the first release of the API so existing clients keep working.

// errorResponse is the error body of both APIs.
type errorResponse = storeapi.Error

func wireID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("record id %q is not numeric", id)
	}
	return n, nil
}

func toSummary(s domain.Summary) (storeapi.Summary, error) {
	id, err := wireID(s.ID)
	if err != nil {
		return storeapi.Summary{}, err
	}
	return storeapi.Summary{
		ApplicationId:        id,
		CurrentPage:          s.CurrentStep.PageName(),
		ApplicationSubmitted: s.Submitted,
	}, nil
}

func toApplicationRecord(r domain.Record) (storeapi.ApplicationRecord, error) {
	id, err := wireID(r.ID)
	if err != nil {
		return storeapi.ApplicationRecord{}, err
	}
	out := storeapi.ApplicationRecord{
		ApplicationId:               id,
		CurrentPage:                 r.CurrentStep.PageName(),
		ApplicationSubmitted:        r.Submitted,
		TherapistMinorityCompetence: r.Values(domain.FieldCompetencePreferences),
	}
	if r.AgeBracket != nil {
		v := string(*r.AgeBracket)
		out.PatientAge = &v
	}
	if r.GenderIdentity != nil {
		v := string(*r.GenderIdentity)
		out.PatientGender = &v
	}
	return out, nil
}

func fromApplicationRecord(id string, in storeapi.ApplicationRecord) (domain.Record, error) {
	step, err := domain.ParseStep(in.CurrentPage)
	if err != nil {
		return domain.Record{}, err
	}
	rec := domain.Record{ID: id, CurrentStep: step, Submitted: in.ApplicationSubmitted}
	if in.PatientAge != nil {
		a, err := domain.ParseAgeBracket(*in.PatientAge)
		if err != nil {
			return domain.Record{}, err
		}
		rec.AgeBracket = &a
	}
	if in.PatientGender != nil {
		g, err := domain.ParseGenderIdentity(*in.PatientGender)
		if err != nil {
			return domain.Record{}, err
		}
		rec.GenderIdentity = &g
	}
	set, err := domain.ParseCompetences(in.TherapistMinorityCompetence)
	if err != nil {
		return domain.Record{}, err
	}
	rec.Competences = set
	return rec, nil
}

// patchFromWire converts a validated payload. Unknown enum values were already
// rejected by the schema; parsing again keeps the domain the authority.
func patchFromWire(p storeapi.RecordPatch) (domain.Patch, error) {
	var patch domain.Patch
	if p.CurrentPage != nil {
		step, err := domain.ParseStep(*p.CurrentPage)
		if err != nil {
			return domain.Patch{}, err
		}
		patch.Step = &step
	}
	if p.ApplicationSubmitted != nil {
		if !*p.ApplicationSubmitted {
			return domain.Patch{}, fmt.Errorf("%w: application_submitted cannot be reverted", domain.ErrInvalidPatch)
		}
		patch.Submit = true
	}
	if p.PatientAge != nil {
		a, err := domain.ParseAgeBracket(*p.PatientAge)
		if err != nil {
			return domain.Patch{}, err
		}
		patch.AgeBracket = &a
	}
	if p.PatientGender != nil {
		g, err := domain.ParseGenderIdentity(*p.PatientGender)
		if err != nil {
			return domain.Patch{}, err
		}
		patch.GenderIdentity = &g
	}
	if p.TherapistMinorityCompetenceResponses != nil {
		set, err := domain.ParseCompetences(*p.TherapistMinorityCompetenceResponses)
		if err != nil {
			return domain.Patch{}, err
		}
		patch.Competences = &set
	}
	return patch, nil
}

// patchToWire is the client side of patchFromWire.
func patchToWire(p domain.Patch) storeapi.RecordPatch {
	var body storeapi.RecordPatch
	if p.Step != nil {
		page := p.Step.PageName()
		body.CurrentPage = &page
	}
	if p.Submit {
		submitted := true
		body.ApplicationSubmitted = &submitted
	}
	if p.AgeBracket != nil {
		age := string(*p.AgeBracket)
		body.PatientAge = &age
	}
	if p.GenderIdentity != nil {
		gender := string(*p.GenderIdentity)
		body.PatientGender = &gender
	}
	if p.Competences != nil {
		values := make([]string, 0, len(*p.Competences))
		for _, c := range domain.CompetenceSet(*p.Competences) {
			values = append(values, string(c))
		}
		body.TherapistMinorityCompetenceResponses = &values
	}
	return body
}
