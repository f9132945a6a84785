// Package questionnaire holds the shapes of questionnaire answers as
// exchanged with the care API
package questionnaire

import (
	"bytes"
	"encoding/json"
	"fmt"

	perr "careview/internal/platform/errors"
	"careview/internal/platform/net/http/bind"
)

// ValueType is the declared type of a ResponseValue
type ValueType string

const (
	TypeString             ValueType = "string"
	TypeNumber             ValueType = "number"
	TypeBoolean            ValueType = "boolean"
	TypeAllergyIntolerance ValueType = "allergy_intolerance"
	TypeMedicationRequest  ValueType = "medication_request"
)

// Valid reports whether t is a known value type
func (t ValueType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeAllergyIntolerance, TypeMedicationRequest:
		return true
	}
	return false
}

// Code is a coded concept
type Code struct {
	System  string `json:"system"`
	Code    string `json:"code"`
	Display string `json:"display"`
}

// Quantity is a measured amount
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Code  *Code   `json:"code,omitempty"`
}

// AllergyIntolerance is one recorded allergy
type AllergyIntolerance struct {
	Code               Code   `json:"code"`
	ClinicalStatus     string `json:"clinical_status,omitempty"`
	VerificationStatus string `json:"verification_status,omitempty"`
	Category           string `json:"category,omitempty"`
	Criticality        string `json:"criticality,omitempty"`
	LastOccurrence     string `json:"last_occurrence,omitempty"`
	Note               string `json:"note,omitempty"`
}

// MedicationRequest is one prescribed medication
type MedicationRequest struct {
	Status            string            `json:"status,omitempty"`
	Intent            string            `json:"intent,omitempty"`
	Category          string            `json:"category,omitempty"`
	Priority          string            `json:"priority,omitempty"`
	Medication        *Code             `json:"medication,omitempty"`
	DosageInstruction []json.RawMessage `json:"dosage_instruction,omitempty"`
	AuthoredOn        string            `json:"authored_on,omitempty"`
	Note              string            `json:"note,omitempty"`
	DoNotPerform      bool              `json:"do_not_perform,omitempty"`
}

// ResponseValue is one answer. Exactly the field matching Type carries the value
type ResponseValue struct {
	Type ValueType

	String      *string
	Number      *float64
	Boolean     *bool
	Allergies   []AllergyIntolerance
	Medications []MedicationRequest

	Code     *Code
	Quantity *Quantity
}

// StringValue returns a string answer
func StringValue(s string) ResponseValue { return ResponseValue{Type: TypeString, String: &s} }

// NumberValue returns a numeric answer
func NumberValue(n float64) ResponseValue { return ResponseValue{Type: TypeNumber, Number: &n} }

// BoolValue returns a boolean answer
func BoolValue(b bool) ResponseValue { return ResponseValue{Type: TypeBoolean, Boolean: &b} }

// HasValue reports whether the answer carries a value; coded or quantity-only answers do not
func (v ResponseValue) HasValue() bool {
	switch v.Type {
	case TypeString:
		return v.String != nil
	case TypeNumber:
		return v.Number != nil
	case TypeBoolean:
		return v.Boolean != nil
	case TypeAllergyIntolerance:
		return v.Allergies != nil
	case TypeMedicationRequest:
		return v.Medications != nil
	}
	return false
}

type wireValue struct {
	Type     ValueType       `json:"type"`
	Value    json.RawMessage `json:"value,omitempty"`
	Code     *Code           `json:"code,omitempty"`
	Quantity *Quantity       `json:"quantity,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (v ResponseValue) MarshalJSON() ([]byte, error) {
	if !v.Type.Valid() {
		return nil, perr.Newf(perr.ErrorCodeValidation, "unknown response value type %q", v.Type)
	}
	w := wireValue{Type: v.Type, Code: v.Code, Quantity: v.Quantity}
	var val any
	switch v.Type {
	case TypeString:
		if v.String != nil {
			val = *v.String
		}
	case TypeNumber:
		if v.Number != nil {
			val = *v.Number
		}
	case TypeBoolean:
		if v.Boolean != nil {
			val = *v.Boolean
		}
	case TypeAllergyIntolerance:
		if v.Allergies != nil {
			val = v.Allergies
		}
	case TypeMedicationRequest:
		if v.Medications != nil {
			val = v.Medications
		}
	}
	if val != nil {
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		w.Value = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. The value must match the declared type
func (v *ResponseValue) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Type.Valid() {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown response value type %q", w.Type), "type")
	}
	out := ResponseValue{Type: w.Type, Code: w.Code, Quantity: w.Quantity}
	if len(w.Value) > 0 && !bytes.Equal(w.Value, []byte("null")) {
		if err := decodeValue(&out, w.Value); err != nil {
			return perr.WithField(perr.Wrapf(err, perr.ErrorCodeValidation, "value does not match type %q", w.Type), "value")
		}
	}
	*v = out
	return nil
}

func decodeValue(out *ResponseValue, raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	switch out.Type {
	case TypeString:
		var s string
		if err := dec.Decode(&s); err != nil {
			return err
		}
		out.String = &s
	case TypeNumber:
		var n float64
		if err := dec.Decode(&n); err != nil {
			return err
		}
		out.Number = &n
	case TypeBoolean:
		var b bool
		if err := dec.Decode(&b); err != nil {
			return err
		}
		out.Boolean = &b
	case TypeAllergyIntolerance:
		a := []AllergyIntolerance{}
		if err := dec.Decode(&a); err != nil {
			return err
		}
		out.Allergies = a
	case TypeMedicationRequest:
		m := []MedicationRequest{}
		if err := dec.Decode(&m); err != nil {
			return err
		}
		out.Medications = m
	default:
		return fmt.Errorf("unsupported type %q", out.Type)
	}
	return nil
}

// QuestionnaireResponse is the set of answers to one question
type QuestionnaireResponse struct {
	QuestionID     string          `json:"question_id" validate:"required"`
	StructuredType *string         `json:"structured_type"`
	LinkID         string          `json:"link_id" validate:"required"`
	Values         []ResponseValue `json:"values"`
	Note           string          `json:"note,omitempty"`
	TakenAt        string          `json:"taken_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	BodySite       *Code           `json:"body_site,omitempty"`
	Method         *Code           `json:"method,omitempty"`
}

// Validate checks the required ids and the taken_at timestamp. Values must
// have known types, and answers to a structured question must all carry
// that structured type
func (r QuestionnaireResponse) Validate() error {
	if err := bind.Struct(r); err != nil {
		return err
	}
	want := TypeStructured(r.StructuredType)
	for i, v := range r.Values {
		if !v.Type.Valid() {
			return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "values[%d]: unknown type %q", i, v.Type), "values")
		}
		if want != "" && v.Type != want {
			return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "values[%d]: %s question answered with %s", i, want, v.Type), "values")
		}
	}
	return nil
}

// TypeStructured returns the value type a structured question answers with, or ""
func TypeStructured(st *string) ValueType {
	if st == nil {
		return ""
	}
	switch ValueType(*st) {
	case TypeAllergyIntolerance, TypeMedicationRequest:
		return ValueType(*st)
	}
	return ""
}
