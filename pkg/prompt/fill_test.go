package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/steveAllen0112/http-aware-forms/pkg/formspec"
	"github.com/steveAllen0112/http-aware-forms/pkg/host"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	"github.com/steveAllen0112/http-aware-forms/pkg/prompt"
)

// scriptedDriver answers prompts from queues and records the messages asked.
type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
	asked    []string
	defaults []string
	validate []func(string) error
}

func (d *scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	d.defaults = append(d.defaults, cfg.Default)
	d.validate = append(d.validate, cfg.Validator)
	return d.next()
}

func (d *scriptedDriver) Password(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) TextArea(ctx context.Context, cfg prompt.TextAreaConfig) (string, error) {
	return d.Input(ctx, prompt.InputConfig{Message: cfg.Message, Default: cfg.Default})
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.confirms) == 0 {
		return false, prompt.ErrAborted
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.selects) == 0 {
		return 0, prompt.ErrAborted
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptedDriver) next() (string, error) {
	if len(d.inputs) == 0 {
		return "", prompt.ErrAborted
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func paginationForm(t *testing.T) *host.Form {
	t.Helper()
	form, err := host.New(formspec.FormSpec{
		Name:    "pagination",
		Headers: []formspec.HeaderSpec{{ID: "range", Name: "Range", Template: "pages={page}@{per}", Fields: []string{"page", "per"}}},
		Fields: []formspec.FieldSpec{
			{Name: "page", Type: formspec.TypeNumber, Value: "1", Label: "Page"},
			{Name: "per", Type: formspec.TypeSelect, Value: "25", Options: []string{"10", "25", "50"}},
			{Name: "token", Type: formspec.TypeHidden, Value: "abc"},
			{Name: "view", Type: formspec.TypeRadio, Value: "list", Checked: true},
			{Name: "view", Type: formspec.TypeRadio, Value: "grid"},
			{Name: "archived", Type: formspec.TypeCheckbox},
			{Name: "q", MaxLength: 5},
		},
	})
	require.NoError(t, err)
	return form
}

func TestFill_DocumentOrder(t *testing.T) {
	form := paginationForm(t)
	driver := &scriptedDriver{
		inputs:   []string{"3", "shoes"},
		selects:  []int{2, 1},
		confirms: []bool{true},
	}

	require.NoError(t, prompt.Fill(context.Background(), driver, form))

	if diff := cmp.Diff([]string{"Page", "per", "view", "archived", "q"}, driver.asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", ""}, driver.defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	want := model.Snapshot{
		model.Text("page", "3"),
		model.Text("per", "50"),
		model.Text("token", "abc"),
		model.Text("view", "grid"),
		model.Text("archived", "on"),
		model.Text("q", "shoes"),
	}
	if diff := cmp.Diff(want, form.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_ValidatorUsesConstraints(t *testing.T) {
	form := paginationForm(t)
	driver := &scriptedDriver{
		inputs:   []string{"2", "x"},
		selects:  []int{0, 0},
		confirms: []bool{false},
	}
	require.NoError(t, prompt.Fill(context.Background(), driver, form))

	pageCheck, qCheck := driver.validate[0], driver.validate[1]
	require.Error(t, pageCheck("two"))
	require.NoError(t, pageCheck("2"))
	require.Error(t, qCheck("too long"))
}

func TestFill_Aborted(t *testing.T) {
	err := prompt.Fill(context.Background(), &scriptedDriver{}, paginationForm(t))
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFill_File(t *testing.T) {
	form, err := host.New(formspec.FormSpec{
		Name:   "upload",
		Fields: []formspec.FieldSpec{{Name: "doc", Type: formspec.TypeFile}},
	})
	require.NoError(t, err)

	reader := func(path string) (model.File, error) {
		return model.File{Name: path, ContentType: "text/plain", Data: []byte("hi")}, nil
	}
	driver := &scriptedDriver{inputs: []string{"notes.txt"}}
	require.NoError(t, prompt.Fill(context.Background(), driver, form, prompt.WithFileReader(reader)))

	got := form.Snapshot()
	require.Len(t, got, 1)
	require.NotNil(t, got[0].File)
	require.Equal(t, "notes.txt", got[0].File.Name)
}
