package questionnaire

import (
	"encoding/json"
	"strings"
	"testing"

	perr "careview/internal/platform/errors"
)

func TestResponseValue_DecodeMatchesType(t *testing.T) {
	cases := []struct {
		in    string
		check func(ResponseValue) bool
	}{
		{`{"type":"string","value":"yes"}`, func(v ResponseValue) bool { return *v.String == "yes" }},
		{`{"type":"number","value":37.5}`, func(v ResponseValue) bool { return *v.Number == 37.5 }},
		{`{"type":"boolean","value":false}`, func(v ResponseValue) bool { return !*v.Boolean }},
		{`{"type":"allergy_intolerance","value":[{"code":{"system":"snomed","code":"91936005","display":"Penicillin"},"criticality":"high"}]}`,
			func(v ResponseValue) bool { return len(v.Allergies) == 1 && v.Allergies[0].Criticality == "high" }},
		{`{"type":"medication_request","value":[{"status":"active","medication":{"code":"123"}}]}`,
			func(v ResponseValue) bool { return v.Medications[0].Medication.Code == "123" }},
		{`{"type":"number","quantity":{"value":5,"unit":"mg"}}`,
			func(v ResponseValue) bool { return !v.HasValue() && v.Quantity.Unit == "mg" }},
	}
	for _, c := range cases {
		var v ResponseValue
		if err := json.Unmarshal([]byte(c.in), &v); err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if !c.check(v) {
			t.Fatalf("%s: unexpected %+v", c.in, v)
		}
	}
}

func TestResponseValue_DecodeRejectsMismatch(t *testing.T) {
	cases := []string{
		`{"type":"number","value":"12"}`,
		`{"type":"boolean","value":"true"}`,
		`{"type":"string","value":3}`,
		`{"type":"allergy_intolerance","value":{"code":{}}}`,
		`{"type":"date","value":"2024-01-01"}`,
	}
	for _, in := range cases {
		var v ResponseValue
		err := json.Unmarshal([]byte(in), &v)
		if !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", in, err)
		}
	}
}

func TestResponseValue_Encode(t *testing.T) {
	b, err := json.Marshal(NumberValue(4))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"type":"number","value":4}` {
		t.Fatalf("json = %s", b)
	}
	b, _ = json.Marshal(ResponseValue{Type: TypeString, Code: &Code{Code: "x"}})
	if strings.Contains(string(b), `"value"`) {
		t.Fatalf("absent value should be omitted: %s", b)
	}
	if _, err := json.Marshal(ResponseValue{Type: "date"}); err == nil {
		t.Fatalf("unknown type should not encode")
	}
}

func TestQuestionnaireResponse_Validate(t *testing.T) {
	allergy := "allergy_intolerance"
	cases := []struct {
		name  string
		r     QuestionnaireResponse
		field string
	}{
		{"ok", QuestionnaireResponse{QuestionID: "q1", LinkID: "1.1", Values: []ResponseValue{StringValue("a")}}, ""},
		{"missing question", QuestionnaireResponse{LinkID: "1.1"}, "question_id"},
		{"missing link", QuestionnaireResponse{QuestionID: "q1"}, "link_id"},
		{"bad taken_at", QuestionnaireResponse{QuestionID: "q1", LinkID: "1", TakenAt: "yesterday"}, "taken_at"},
		{"structured mismatch", QuestionnaireResponse{QuestionID: "q1", LinkID: "1", StructuredType: &allergy, Values: []ResponseValue{BoolValue(true)}}, "values"},
		{"structured ok", QuestionnaireResponse{QuestionID: "q1", LinkID: "1", StructuredType: &allergy, Values: []ResponseValue{{Type: TypeAllergyIntolerance, Allergies: []AllergyIntolerance{}}}}, ""},
	}
	for _, c := range cases {
		err := c.r.Validate()
		if c.field == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", c.name, err)
			}
			continue
		}
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != c.field {
			t.Fatalf("%s: expected validation error on %s, got %v", c.name, c.field, err)
		}
	}
}
