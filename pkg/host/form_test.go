package host_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/host"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
)

func ticketSpec() formspec.FormSpec {
	return formspec.FormSpec{
		Name:   "ticket",
		Method: "post",
		Action: "/tickets",
		Headers: []formspec.HeaderSpec{
			{ID: "prefer", Name: "Prefer", Template: "return={mode}", Fields: []string{"mode"}},
		},
		Fields: []formspec.FieldSpec{
			{Name: "title", Required: true, MinLength: 3, MaxLength: 10},
			{Name: "email", Type: "email"},
			{Name: "priority", Type: "number", Value: "2"},
			{Name: "code", Pattern: "[A-Z]{3}"},
			{Name: "site", Type: "url"},
			{Name: "urgent", Type: "checkbox", Value: "yes"},
			{Name: "mode", Type: "radio", Value: "minimal", Checked: true},
			{Name: "mode", Type: "radio", Value: "representation"},
			{Name: "attachment", Type: "file"},
		},
		Submitters: []formspec.SubmitterSpec{
			{Name: "save", Value: "1"},
			{Name: "draft", Value: "1", NoValidate: model.Bool(true)},
		},
	}
}

func newTicket(t *testing.T) *host.Form {
	t.Helper()
	form, err := host.New(ticketSpec())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return form
}

func TestSnapshot_DocumentOrderAndCheckables(t *testing.T) {
	form := newTicket(t)
	if err := form.Set("title", "Broken"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := form.Set("urgent", "on"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := form.Set("mode", "representation"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := form.SetFile("attachment", model.File{Name: "log.txt", ContentType: "text/plain", Data: []byte("x")}); err != nil {
		t.Fatalf("SetFile: %v", err)
	}

	want := model.Snapshot{
		model.Text("title", "Broken"),
		model.Text("email", ""),
		model.Text("priority", "2"),
		model.Text("code", ""),
		model.Text("site", ""),
		model.Text("urgent", "yes"),
		model.Text("mode", "representation"),
		model.FileEntry("attachment", model.File{Name: "log.txt", ContentType: "text/plain", Data: []byte("x")}),
	}
	if diff := cmp.Diff(want, form.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	if value, ok := form.Value("mode"); !ok || value != "representation" {
		t.Fatalf("Value(mode) = %q, %v", value, ok)
	}
}

func TestSet_Errors(t *testing.T) {
	form := newTicket(t)
	if err := form.Set("missing", "x"); !errors.Is(err, host.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := form.Set("attachment", "x"); err == nil {
		t.Fatalf("expected an error when setting text on a file input")
	}
	if err := form.SetFile("title", model.File{}); err == nil {
		t.Fatalf("expected an error when setting a file on a text input")
	}
}

func TestValidate_Constraints(t *testing.T) {
	form := newTicket(t)
	for name, value := range map[string]string{
		"title":    "ab",
		"email":    "not-an-address",
		"priority": "two",
		"code":     "ABCD",
		"site":     "/relative",
	} {
		if err := form.Set(name, value); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}

	sub, err := form.Submission("save")
	if err != nil {
		t.Fatalf("Submission: %v", err)
	}
	got := form.Validate(context.Background(), sub)
	want := []submit.Violation{
		{Field: "title", Message: "must be at least 3 characters"},
		{Field: "email", Message: "is not an e-mail address"},
		{Field: "priority", Message: "is not a number"},
		{Field: "code", Message: "does not match the pattern [A-Z]{3}"},
		{Field: "site", Message: "is not an absolute URL"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_RequiredAndValid(t *testing.T) {
	form := newTicket(t)
	sub, _ := form.Submission("")
	got := form.Validate(context.Background(), sub)
	if diff := cmp.Diff([]submit.Violation{{Field: "title", Message: "value is required"}}, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}

	_ = form.Set("title", "Printer")
	_ = form.Set("email", "ops@example.test")
	_ = form.Set("code", "ABC")
	_ = form.Set("site", "https://example.test/a")
	sub, _ = form.Submission("")
	if got := form.Validate(context.Background(), sub); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
}

func TestCheckValue_Number(t *testing.T) {
	field := formspec.FieldSpec{Name: "priority", Type: formspec.TypeNumber}
	for _, value := range []string{"2", "-0.5", ".5", "1e3", "1.5E-2", " 7 "} {
		if err := host.CheckValue(field, value); err != nil {
			t.Fatalf("CheckValue(%q) = %v, want nil", value, err)
		}
	}
	for _, value := range []string{"NaN", "Inf", "-Infinity", "0x1p-2", "0x10", "+1", "1.", "1e", "1e400", "1_000"} {
		if err := host.CheckValue(field, value); err == nil {
			t.Fatalf("CheckValue(%q) accepted a value number controls reject", value)
		}
	}
}

func TestSubmission_CarriesSubmitterAndModel(t *testing.T) {
	form := newTicket(t)
	sub, err := form.Submission("draft")
	if err != nil {
		t.Fatalf("Submission: %v", err)
	}
	if sub.Submitter == nil || sub.Submitter.Name != "draft" || !sub.Submitter.NoValidate() {
		t.Fatalf("unexpected submitter %+v", sub.Submitter)
	}
	if sub.Form.Name != "ticket" || len(sub.Form.Declarations) != 1 {
		t.Fatalf("unexpected form model %+v", sub.Form)
	}
	if _, err := form.Submission("nope"); err == nil {
		t.Fatalf("expected an error for an unknown submitter")
	}
}
