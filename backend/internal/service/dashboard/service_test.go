/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 18:19:35
 * @FilePath: \dashboard-catalog\backend\internal\service\dashboard\service_test.go
 * @LastEditTime: 2026-10-15 11:06:37
 */
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	domain "dashboard-catalog/backend/internal/domain/dashboard"

	"gorm.io/gorm"
)

type fakeStore struct {
	created   []*domain.Dashboard
	updates   map[uint]domain.Patch
	rows      []domain.Dashboard
	distinct  map[domain.Field][]string
	createErr error
	updateErr error
	listErr   error
}

func (f *fakeStore) Create(_ context.Context, record *domain.Dashboard) error {
	if f.createErr != nil {
		return f.createErr
	}
	record.ID = uint(len(f.created) + 1)
	f.created = append(f.created, record)
	return nil
}

func (f *fakeStore) Update(_ context.Context, id uint, patch domain.Patch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updates == nil {
		f.updates = map[uint]domain.Patch{}
	}
	f.updates[id] = patch
	return nil
}

func (f *fakeStore) List(context.Context, domain.Filter) ([]domain.Dashboard, error) {
	return f.rows, f.listErr
}

func (f *fakeStore) Distinct(_ context.Context, column domain.Field) ([]string, error) {
	return f.distinct[column], nil
}

func validPayload() Payload {
	return Payload{
		"category":          " Sales ",
		"client":            "Acme",
		"created_by":        "alice",
		"last_updated_date": " 2024-05-01",
		"updated_by":        "alice",
		"topic":             "Q1",
		"description":       "desc",
		"link":              "https://bi.example.com",
	}
}

func TestNormalizeReportsFirstMissingField(t *testing.T) {
	schema := mustSchema(t, domain.VariantStandard)

	payload := validPayload()
	delete(payload, "topic")
	delete(payload, "link")
	_, err := Normalize(payload, schema.CreateFields)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != domain.FieldTopic || ve.Message != "'topic' is required" {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
}

func TestNormalizeTrimsTextButKeepsDatesRaw(t *testing.T) {
	schema := mustSchema(t, domain.VariantStandard)

	values, err := Normalize(validPayload(), schema.CreateFields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[domain.FieldCategory] != "Sales" {
		t.Fatalf("category not trimmed: %q", values[domain.FieldCategory])
	}
	if values[domain.FieldLastUpdatedDate] != " 2024-05-01" {
		t.Fatalf("date should be kept as submitted: %q", values[domain.FieldLastUpdatedDate])
	}
}

func TestTextValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{"x", "x", true},
		{float64(3), "3", true},
		{1.5, "1.5", true},
		{json.Number("7"), "7", true},
		{true, "true", true},
		{nil, "", false},
		{[]any{"a"}, "", false},
		{map[string]any{"a": 1}, "", false},
	}
	for _, tc := range cases {
		got, ok := textValue(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("textValue(%#v) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidateLink(t *testing.T) {
	for _, link := range []string{"http://a", "https://a"} {
		if err := ValidateLink(link); err != nil {
			t.Fatalf("%s should be valid: %v", link, err)
		}
	}
	for _, link := range []string{"", "ftp://a", "//a", "Http://a"} {
		if !isValidationError(ValidateLink(link)) {
			t.Fatalf("%s should be rejected", link)
		}
	}
}

func TestServiceCreateBuildsRecord(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, mustSchema(t, domain.VariantStandard))

	id, err := svc.Create(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 1 || len(store.created) != 1 {
		t.Fatalf("unexpected create result id=%d created=%d", id, len(store.created))
	}
	record := store.created[0]
	if record.Category != "Sales" || record.Link != "https://bi.example.com" || record.LastUpdatedDate != " 2024-05-01" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.DataFrom != "" || record.PublishedAccount != "" {
		t.Fatalf("standard variant must not set extended fields: %+v", record)
	}
}

func TestServiceCreateValidationSkipsStore(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, mustSchema(t, domain.VariantStandard))

	payload := validPayload()
	payload["link"] = "bi.example.com"
	if _, err := svc.Create(context.Background(), payload); !isValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("store must not be called on invalid payload")
	}
}

func TestServiceCreateWrapsStorageErrors(t *testing.T) {
	store := &fakeStore{createErr: errors.New("disk full")}
	svc := NewService(store, mustSchema(t, domain.VariantStandard))

	_, err := svc.Create(context.Background(), validPayload())
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if isValidationError(err) {
		t.Fatalf("storage error must not look like a validation error")
	}
}

func TestServiceUpdate(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, mustSchema(t, domain.VariantStandard))

	err := svc.Update(context.Background(), 3, Payload{
		"description":       " new ",
		"last_updated_date": "2024-06-01",
		"updated_by":        "bob",
		"category":          "ignored",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	columns := store.updates[3].Columns()
	if len(columns) != 3 || columns["description"] != "new" || columns["last_updated_date"] != "2024-06-01" {
		t.Fatalf("unexpected update columns: %v", columns)
	}
	if _, ok := columns["category"]; ok {
		t.Fatalf("category must never be written on update")
	}
}

func TestValidateUpdateExtendedPatch(t *testing.T) {
	patch, err := ValidateUpdate(mustSchema(t, domain.VariantExtended), Payload{
		"description":       "d",
		"last_updated_date": "2024-06-01",
		"updated_by":        " carol ",
		"data_from":         "2024-01-01",
		"data_to":           "2024-03-31",
		"published_account": " ops ",
		"topic":             "ignored",
	})
	if err != nil {
		t.Fatalf("validate update: %v", err)
	}
	if patch.Values.UpdatedBy != "carol" || patch.Values.PublishedAccount != "ops" || patch.Values.DataTo != "2024-03-31" {
		t.Fatalf("unexpected patch values: %+v", patch.Values)
	}
	if patch.Values.Topic != "" || len(patch.Fields) != 6 {
		t.Fatalf("patch must only carry update fields: %+v", patch)
	}
}

func TestServiceUpdateMapsNotFound(t *testing.T) {
	store := &fakeStore{updateErr: gorm.ErrRecordNotFound}
	svc := NewService(store, mustSchema(t, domain.VariantStandard))

	err := svc.Update(context.Background(), 9, Payload{
		"description":       "x",
		"last_updated_date": "2024-06-01",
		"updated_by":        "bob",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceOptionsNeverNil(t *testing.T) {
	store := &fakeStore{distinct: map[domain.Field][]string{
		domain.FieldCategory: {"Ops", "Sales"},
	}}
	svc := NewService(store, mustSchema(t, domain.VariantExtended))

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(opts) != 5 {
		t.Fatalf("expected 5 option keys, got %v", opts)
	}
	if opts["published_accounts"] == nil || len(opts["published_accounts"]) != 0 {
		t.Fatalf("missing columns should be empty slices, got %#v", opts["published_accounts"])
	}
	if len(opts["categories"]) != 2 {
		t.Fatalf("unexpected categories: %v", opts["categories"])
	}
}

func TestServiceListRendersRows(t *testing.T) {
	store := &fakeStore{rows: []domain.Dashboard{{ID: 2, Category: "Sales"}, {ID: 1, Category: "Ops"}}}
	svc := NewService(store, mustSchema(t, domain.VariantStandard))

	items, err := svc.List(context.Background(), domain.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0]["id"] != uint(2) || items[1]["category"] != "Ops" {
		t.Fatalf("unexpected items: %v", items)
	}
}

func mustSchema(t *testing.T, v domain.Variant) domain.Schema {
	t.Helper()
	s, err := domain.SchemaFor(v)
	if err != nil {
		t.Fatalf("schema for %s: %v", v, err)
	}
	return s
}

func isValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
