package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "careview/internal/platform/errors"
)

type payload struct {
	Comment string `json:"comment" validate:"has_text"`
	Phone   string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Note    string `json:"-"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[payload](post(`{"comment":"ok","rating":3}`))
	if err != nil || got.Comment != "ok" || got.Rating != 3 {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestDecodeJSON_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":    ``,
		"broken":   `{"comment":`,
		"unknown":  `{"comment":"x","extra":1}`,
		"trailing": `{"comment":"x"} {"comment":"y"}`,
		"too big":  `{"comment":"` + strings.Repeat("a", MaxBody) + `"}`,
	}
	for name, body := range cases {
		if _, err := DecodeJSON[payload](post(body)); !perr.IsCode(err, perr.ErrorCodeJSON) {
			t.Fatalf("%s: expected JSON error, got %v", name, err)
		}
	}
}

func TestDecodeJSON_SkipsValidation(t *testing.T) {
	got, err := DecodeJSON[payload](post(`{"comment":"   "}`))
	if err != nil || got.Comment != "   " {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestStruct_Messages(t *testing.T) {
	cases := []struct {
		in    payload
		field string
		msg   string
	}{
		{payload{Comment: " \n", Rating: 1}, "comment", "comment must not be blank"},
		{payload{Comment: "x", Rating: 9}, "rating", "rating must be at most 5"},
		{payload{Comment: "x", Rating: 0}, "rating", "rating must be at least 1"},
		{payload{Comment: "x", Rating: 1, Phone: "555-0100"}, "phone_number", "phone_number must be a phone number in international format"},
	}
	for _, c := range cases {
		e, ok := perr.As(Struct(c.in))
		if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != c.field || e.Error() != c.msg {
			t.Fatalf("%+v: got %v", c.in, e)
		}
	}

	if err := Struct(payload{Comment: "x", Rating: 2, Phone: "+14155552671"}); err != nil {
		t.Fatalf("valid payload: %v", err)
	}
	if err := Struct("not a struct"); err != nil {
		t.Fatalf("non struct: %v", err)
	}
}

func TestJSONNameFallsBackToFieldName(t *testing.T) {
	type tagged struct {
		Plain  string `validate:"required"`
		Hidden string `json:"-" validate:"required"`
	}
	field, _ := FieldAndMessage(Get().Validator.Struct(tagged{Hidden: "x"}))
	if field != "Plain" {
		t.Fatalf("field = %q", field)
	}
	field, _ = FieldAndMessage(Get().Validator.Struct(tagged{Plain: "x"}))
	if field != "Hidden" {
		t.Fatalf("field = %q", field)
	}
}

func TestValid(t *testing.T) {
	if !Valid("+14155552671", "required,e164") || Valid("4155552671", "required,e164") {
		t.Fatalf("e164 check wrong")
	}
}

func TestHasText(t *testing.T) {
	for _, s := range []string{"", "\t ", "\u200b\ufeff ", "\u2060\n\u200c", "\x00"} {
		if HasText(s) {
			t.Fatalf("HasText(%q) = true", s)
		}
	}
	for _, s := range []string{" a ", "\u200d\U0001F468", "\u0d28\u0d4d\u200d"} {
		if !HasText(s) {
			t.Fatalf("HasText(%q) = false", s)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"+14155552671", true},
		{"+447911123456", true},
		{"4155552671", false},
		{"+10005552671", false}, // no NANP area code starts with 0
		{"+999123456789", false},
		{"+1", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Phone(tc.in); got != tc.want {
			t.Fatalf("Phone(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if tc.want && !Valid(tc.in, "required,e164,phone") {
			t.Fatalf("%q should pass the phone tag", tc.in)
		}
	}
	if !Valid("+10005552671", "e164") || Valid("+10005552671", "phone") {
		t.Fatalf("phone must be stricter than e164")
	}
}
