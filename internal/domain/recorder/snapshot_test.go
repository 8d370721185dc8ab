package recorder_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rpggio/crmtrail/internal/domain/recorder"
	"github.com/stretchr/testify/require"
)

func TestDetectChanges_OrderedByField(t *testing.T) {
	before := recorder.Snapshot{"name": "Acme", "status": "draft", "amount": 10}
	after := recorder.Snapshot{"status": "sent", "name": "Acme Corp", "amount": 12}

	changes := recorder.DetectChanges(before, after, nil)
	require.Len(t, changes, 3)
	require.Equal(t, "amount", changes[0].Field)
	require.Equal(t, "name", changes[1].Field)
	require.Equal(t, "status", changes[2].Field)
	require.Equal(t, "draft", changes[2].Old)
	require.Equal(t, "sent", changes[2].New)
}

func TestDetectChanges_LooseEquality(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	before := recorder.Snapshot{
		"account_id":  5,
		"amount":      "1000.00",
		"description": nil,
		"close_date":  "2024-03-01",
		"is_active":   1,
		"is_billable": true,
		"is_taxable":  "False",
		"quantity":    json.Number("3"),
	}
	after := recorder.Snapshot{
		"account_id":  "5",
		"amount":      1000,
		"description": "",
		"close_date":  day,
		"is_active":   true,
		"is_billable": "true",
		"is_taxable":  false,
		"quantity":    3.0,
	}
	require.Empty(t, recorder.DetectChanges(before, after, nil))
}

func TestDetectChanges_NumericStrings(t *testing.T) {
	cases := []struct {
		name    string
		old     any
		new     any
		changed bool
	}{
		{"word that parses as float", "Nan", "Nan", false},
		{"nan words differ", "NaN", "nan", true},
		{"infinity word", "Inf", "Infinity", true},
		{"large ints keep every digit", "12345678901234567", "12345678901234568", true},
		{"above float precision", "9007199254740993", "9007199254740992", true},
		{"large int string and int", "9007199254740993", int64(9007199254740993), false},
		{"large int string and neighbour", "9007199254740993", int64(9007199254740992), true},
		{"uint64 max", uint64(18446744073709551615), "18446744073709551615", false},
		{"decimal with trailing zero", "2500.50", 2500.5, false},
		{"exponent stays text", "1e3", 1000, true},
		{"negative", "-42", -42, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			changes := recorder.DetectChanges(
				recorder.Snapshot{"value": tc.old},
				recorder.Snapshot{"value": tc.new},
				nil,
			)
			if tc.changed {
				require.Len(t, changes, 1)
				require.Equal(t, tc.old, changes[0].Old)
				require.Equal(t, tc.new, changes[0].New)
			} else {
				require.Empty(t, changes)
			}
		})
	}
}

func TestDetectChanges_MissingSideIsNil(t *testing.T) {
	before := recorder.Snapshot{"phone": "555"}
	after := recorder.Snapshot{"email": "a@example.com"}

	changes := recorder.DetectChanges(before, after, nil)
	require.Equal(t, []recorder.Change{
		{Field: "email", Old: nil, New: "a@example.com"},
		{Field: "phone", Old: "555", New: nil},
	}, changes)
}

func TestDetectChanges_Excluded(t *testing.T) {
	before := recorder.Snapshot{"updated_at": "2024-01-01", "name": "A"}
	after := recorder.Snapshot{"updated_at": "2024-01-02", "name": "A"}
	require.Empty(t, recorder.DetectChanges(before, after, recorder.NewFieldSet("updated_at")))
}

func TestReferenceKey(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{nil, "", false},
		{"", "", false},
		{" 7 ", "7", true},
		{7, "7", true},
		{int64(9007199254740993), "9007199254740993", true},
		{float64(5), "5", true},
		{2.5, "2.5", true},
		{"Nan", "Nan", true},
		{true, "", false},
	}
	for _, tc := range cases {
		got, ok := recorder.ReferenceKey(tc.in)
		require.Equal(t, tc.ok, ok, "input %v", tc.in)
		require.Equal(t, tc.want, got, "input %v", tc.in)
	}
}
