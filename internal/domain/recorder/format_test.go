package recorder_test

import (
	"context"
	"testing"

	"github.com/rpggio/crmtrail/internal/domain/recorder"
	"github.com/rpggio/crmtrail/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestFormatter(refs fakeResolver) *recorder.Formatter {
	return recorder.NewFormatter(refs, recorder.FormatOptions{})
}

func TestFormatter_Status(t *testing.T) {
	f := newTestFormatter(nil)
	ctx := context.Background()

	r := f.Render(ctx, "tenant1", recorder.Quote(), recorder.Change{Field: "status", Old: "draft", New: "sent"}, "Jane Doe")
	require.Equal(t, "Jane Doe updated status", r.Title)
	require.Equal(t,
		`<span class="badge" style="background-color: #6b7280; color: #ffffff;">Draft</span> into `+
			`<span class="badge" style="background-color: #3b82f6; color: #ffffff;">Sent</span>`,
		r.Description)

	r = f.Render(ctx, "tenant1", recorder.Invoice(), recorder.Change{Field: "status", Old: "sent", New: "partially_paid"}, "Jane Doe")
	require.Contains(t, r.Description, "#f59e0b")
	require.Contains(t, r.Description, "Partially paid")

	r = f.Render(ctx, "tenant1", recorder.SalesOrder(), recorder.Change{Field: "status", Old: "pending", New: "on_hold"}, "Jane Doe")
	require.Contains(t, r.Description, `background-color: #6b7280; color: #ffffff;">On hold`)
}

func TestFormatter_Assignment(t *testing.T) {
	refs := fakeResolver{"user:7": {Label: "Jane Doe"}, "user:8": {Label: "Sam Lee"}}
	f := newTestFormatter(refs)
	ctx := context.Background()

	r := f.Render(ctx, "tenant1", recorder.Lead(), recorder.Change{Field: "assigned_to", Old: nil, New: 8}, "Jane Doe")
	require.Equal(t, "Jane Doe assigned to Sam Lee", r.Title)
	require.Equal(t, "Unassigned into Sam Lee", r.Description)

	r = f.Render(ctx, "tenant1", recorder.Lead(), recorder.Change{Field: "assigned_to", Old: 8, New: 7}, "Jane Doe")
	require.Equal(t, "Jane Doe self-assigned this lead", r.Title)

	r = f.Render(ctx, "tenant1", recorder.Lead(), recorder.Change{Field: "assigned_to", Old: 7, New: 99}, "Jane Doe")
	require.Equal(t, "Jane Doe assigned to Unassigned", r.Title)
	require.Equal(t, "Jane Doe into Unassigned", r.Description)
}

func TestFormatter_ResolvesInTenantScope(t *testing.T) {
	resolver := new(mocks.Resolver)
	resolver.On("Resolve", mock.Anything, "tenant9", recorder.LookupAccountType, 9).
		Return(recorder.Reference{Label: "Partner", Color: "#445566"}, true).Once()
	f := recorder.NewFormatter(resolver, recorder.FormatOptions{})

	r := f.Render(context.Background(), "tenant9", recorder.Account(), recorder.Change{Field: "account_type_id", Old: nil, New: 9}, "Jane Doe")
	require.Contains(t, r.Description, "Partner")
	require.Empty(t, r.OldColor)
	require.Equal(t, "#445566", r.NewColor)

	// A blank old side is never looked up.
	resolver.AssertExpectations(t)
	resolver.AssertNumberOfCalls(t, "Resolve", 1)
}

func TestFormatter_ColoredReference(t *testing.T) {
	refs := fakeResolver{
		"account_type:5": {Label: "Customer", Color: "#112233"},
		"account_type:9": {Label: "Partner", Color: "#445566"},
	}
	f := newTestFormatter(refs)

	r := f.Render(context.Background(), "tenant1", recorder.Account(), recorder.Change{Field: "account_type_id", Old: 5, New: 9}, "Jane Doe")
	require.Equal(t, "Jane Doe updated account type ", r.Title)
	require.Equal(t,
		`<span class="badge badge-dot"><span class="dot" style="background-color: #112233;"></span>Customer</span> into `+
			`<span class="badge badge-dot"><span class="dot" style="background-color: #445566;"></span>Partner</span>`,
		r.Description)
	require.Equal(t, "#112233", r.OldColor)
	require.Equal(t, "#445566", r.NewColor)

	r = f.Render(context.Background(), "tenant1", recorder.Account(), recorder.Change{Field: "account_type_id", Old: nil, New: 404}, "Jane Doe")
	require.Equal(t, "None into None", r.Description)
	require.Empty(t, r.NewColor)
}

func TestFormatter_FallbackTokens(t *testing.T) {
	f := newTestFormatter(fakeResolver{})
	ctx := context.Background()

	cases := []struct {
		d     *recorder.Descriptor
		field string
		token string
	}{
		{recorder.Lead(), "lead_source_id", "None"},
		{recorder.Lead(), "lead_status_id", "None"},
		{recorder.Opportunity(), "contact_id", "None"},
		{recorder.Quote(), "account_id", "-"},
		{recorder.SalesOrder(), "shipping_provider_type_id", "-"},
		{recorder.Invoice(), "sales_order_id", "-"},
		{recorder.PurchaseOrder(), "assigned_to", "Unassigned"},
	}
	for _, tc := range cases {
		desc := f.Description(ctx, "tenant1", tc.d, tc.field, 1, 2)
		require.Equal(t, tc.token+" into "+tc.token, desc, "%s.%s", tc.d.Entity, tc.field)
	}
}

func TestFormatter_CurrencyAndDates(t *testing.T) {
	f := recorder.NewFormatter(nil, recorder.FormatOptions{CurrencySymbol: "€", DateLayout: "2006/01/02"})
	ctx := context.Background()

	require.Equal(t, "€0.00 into €1,234,567.89",
		f.Description(ctx, "tenant1", recorder.Invoice(), "amount_paid", nil, 1234567.891))
	require.Equal(t, "-€5.00 into €5.00",
		f.Description(ctx, "tenant1", recorder.Invoice(), "amount_paid", -5, "5"))
	require.Equal(t, "2024/03/01 into None",
		f.Description(ctx, "tenant1", recorder.Invoice(), "due_date", "2024-03-01", nil))
	// Unlisted fields with date-like names still render as dates.
	require.Equal(t, "None into 2024/07/04",
		f.Description(ctx, "tenant1", recorder.Account(), "last_contacted_at", nil, "2024-07-04T10:00:00Z"))
}

func TestFormatter_NameAndDefault(t *testing.T) {
	f := newTestFormatter(nil)
	ctx := context.Background()

	r := f.Render(ctx, "tenant1", recorder.Account(), recorder.Change{Field: "name", Old: "Acme", New: "Acme & Sons"}, "Jane Doe")
	require.Equal(t, "Jane Doe updated name", r.Title)
	require.Equal(t, "<strong>Acme</strong> into <strong>Acme &amp; Sons</strong>", r.Description)

	r = f.Render(ctx, "tenant1", recorder.Account(), recorder.Change{Field: "is_vip", Old: false, New: true}, "Jane Doe")
	require.Equal(t, "Jane Doe updated is vip", r.Title)
	require.Equal(t, `<span class="activity-old">No</span> into <span class="activity-new">Yes</span>`, r.Description)

	require.Equal(t, "Jane Doe updated website",
		f.Title(ctx, "tenant1", recorder.Account(), "website", "", "example.com", "Jane Doe"))
}

func TestStatusLabel(t *testing.T) {
	require.Equal(t, "Partially paid", recorder.StatusLabel("partially_paid"))
	require.Equal(t, "Draft", recorder.StatusLabel("draft"))
	require.Equal(t, "", recorder.StatusLabel(""))
}
