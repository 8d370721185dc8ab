package recorder

import (
	"sort"
	"strings"
)

// RuleKind selects how a field change is titled and described.
type RuleKind int

const (
	RuleDefault RuleKind = iota
	RuleStatus
	RuleAssignment
	RuleColoredReference
	RulePlainReference
	RuleCurrency
	RuleDate
	RuleName
)

func (k RuleKind) String() string {
	switch k {
	case RuleStatus:
		return "status"
	case RuleAssignment:
		return "assignment"
	case RuleColoredReference:
		return "colored_reference"
	case RulePlainReference:
		return "plain_reference"
	case RuleCurrency:
		return "currency"
	case RuleDate:
		return "date"
	case RuleName:
		return "name"
	default:
		return "default"
	}
}

// FieldRule configures rendering for one field of an entity type.
type FieldRule struct {
	Kind   RuleKind
	Lookup LookupType
	// ColorKey names the new_values key that receives the resolved color of
	// the new reference; the old color goes under "old_" + ColorKey.
	ColorKey string
	Fallback string
}

// Descriptor is the per-entity-type configuration driving the recorder.
type Descriptor struct {
	Entity         string
	ExcludedFields FieldSet
	Rules          map[string]FieldRule
	DateFields     FieldSet
	StatusColors   map[string]string
	StatusField    string
	StatusLookup   LookupType
	CreatedDefault string
}

// Rule returns the rendering rule for field.
func (d *Descriptor) Rule(field string) FieldRule {
	if rule, ok := d.Rules[field]; ok {
		return rule
	}
	if field == "assigned_to" {
		return FieldRule{Kind: RuleAssignment, Lookup: LookupUser, Fallback: "Unassigned"}
	}
	return FieldRule{Kind: RuleDefault}
}

// ColorFields returns the fields whose reference colors are denormalized
// into activity records, sorted.
func (d *Descriptor) ColorFields() []string {
	var fields []string
	for name, rule := range d.Rules {
		if rule.ColorKey != "" {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

func (d *Descriptor) isDateField(field string) bool {
	return d.DateFields.Has(field) || strings.Contains(field, "_date") || strings.Contains(field, "_at")
}

// Entity type names.
const (
	EntityAccount       = "account"
	EntityLead          = "lead"
	EntityOpportunity   = "opportunity"
	EntityQuote         = "quote"
	EntitySalesOrder    = "sales_order"
	EntityInvoice       = "invoice"
	EntityPurchaseOrder = "purchase_order"
)

// Label is the entity name as used in activity titles.
func (d *Descriptor) Label() string {
	return strings.ReplaceAll(d.Entity, "_", " ")
}

func baseExcluded(extra ...string) FieldSet {
	return NewFieldSet(append([]string{"updated_at"}, extra...)...)
}

func plainRef(lookupType LookupType, fallback string) FieldRule {
	return FieldRule{Kind: RulePlainReference, Lookup: lookupType, Fallback: fallback}
}

func coloredRef(lookupType LookupType, colorKey string) FieldRule {
	return FieldRule{Kind: RuleColoredReference, Lookup: lookupType, ColorKey: colorKey, Fallback: "None"}
}

var (
	nameRule     = FieldRule{Kind: RuleName}
	statusRule   = FieldRule{Kind: RuleStatus}
	currencyRule = FieldRule{Kind: RuleCurrency}
	dateRule     = FieldRule{Kind: RuleDate, Fallback: "None"}
)

// Account describes account activity.
func Account() *Descriptor {
	return &Descriptor{
		Entity:         EntityAccount,
		ExcludedFields: baseExcluded(),
		Rules: map[string]FieldRule{
			"name":                nameRule,
			"status":              statusRule,
			"account_type_id":     coloredRef(LookupAccountType, "account_type_color"),
			"account_industry_id": coloredRef(LookupAccountIndustry, "account_industry_color"),
			"parent_account_id":   plainRef(LookupAccount, "None"),
			"annual_revenue":      currencyRule,
		},
		StatusColors: map[string]string{
			"active":   "#10b981",
			"inactive": "#9ca3af",
		},
		StatusField:    "status",
		CreatedDefault: "Active",
	}
}

// Lead describes lead activity.
func Lead() *Descriptor {
	return &Descriptor{
		Entity:         EntityLead,
		ExcludedFields: baseExcluded("is_converted", "converted_at"),
		Rules: map[string]FieldRule{
			"name":           nameRule,
			"lead_status_id": coloredRef(LookupLeadStatus, "lead_status_color"),
			"lead_source_id": plainRef(LookupLeadSource, "None"),
			"campaign_id":    plainRef(LookupCampaign, "None"),
			"account_id":     plainRef(LookupAccount, "None"),
			"budget":         currencyRule,
		},
		StatusField:    "lead_status_id",
		StatusLookup:   LookupLeadStatus,
		CreatedDefault: "New",
	}
}

// Opportunity describes opportunity activity.
func Opportunity() *Descriptor {
	return &Descriptor{
		Entity:         EntityOpportunity,
		ExcludedFields: baseExcluded(),
		Rules: map[string]FieldRule{
			"name":                  nameRule,
			"opportunity_stage_id":  coloredRef(LookupOpportunityStage, "opportunity_stage_color"),
			"opportunity_source_id": plainRef(LookupOpportunitySource, "None"),
			"campaign_id":           plainRef(LookupCampaign, "None"),
			"account_id":            plainRef(LookupAccount, "None"),
			"contact_id":            plainRef(LookupContact, "None"),
			"amount":                currencyRule,
			"expected_revenue":      currencyRule,
			"close_date":            dateRule,
		},
		DateFields:     NewFieldSet("close_date"),
		StatusField:    "opportunity_stage_id",
		StatusLookup:   LookupOpportunityStage,
		CreatedDefault: "New",
	}
}

// Quote describes quote activity.
func Quote() *Descriptor {
	return &Descriptor{
		Entity:         EntityQuote,
		ExcludedFields: baseExcluded(),
		Rules: map[string]FieldRule{
			"name":           nameRule,
			"status":         statusRule,
			"account_id":     plainRef(LookupAccount, "-"),
			"contact_id":     plainRef(LookupContact, "-"),
			"opportunity_id": plainRef(LookupOpportunity, "-"),
			"subtotal":       currencyRule,
			"tax_amount":     currencyRule,
			"total_amount":   currencyRule,
			"valid_until":    dateRule,
		},
		DateFields: NewFieldSet("valid_until"),
		StatusColors: map[string]string{
			"draft":    "#6b7280",
			"sent":     "#3b82f6",
			"accepted": "#10b981",
			"rejected": "#ef4444",
			"expired":  "#f59e0b",
		},
		StatusField:    "status",
		CreatedDefault: "Draft",
	}
}

// SalesOrder describes sales order activity.
func SalesOrder() *Descriptor {
	return &Descriptor{
		Entity:         EntitySalesOrder,
		ExcludedFields: baseExcluded(),
		Rules: map[string]FieldRule{
			"name":                      nameRule,
			"status":                    statusRule,
			"account_id":                plainRef(LookupAccount, "-"),
			"contact_id":                plainRef(LookupContact, "-"),
			"quote_id":                  plainRef(LookupQuote, "-"),
			"opportunity_id":            plainRef(LookupOpportunity, "-"),
			"shipping_provider_type_id": plainRef(LookupShippingProviderType, "-"),
			"subtotal":                  currencyRule,
			"tax_amount":                currencyRule,
			"total_amount":              currencyRule,
			"expected_delivery_date":    dateRule,
		},
		DateFields: NewFieldSet("expected_delivery_date"),
		StatusColors: map[string]string{
			"pending":    "#f59e0b",
			"confirmed":  "#3b82f6",
			"processing": "#8b5cf6",
			"shipped":    "#06b6d4",
			"delivered":  "#10b981",
			"cancelled":  "#ef4444",
		},
		StatusField:    "status",
		CreatedDefault: "Pending",
	}
}

// Invoice describes invoice activity.
func Invoice() *Descriptor {
	return &Descriptor{
		Entity:         EntityInvoice,
		ExcludedFields: baseExcluded(),
		Rules: map[string]FieldRule{
			"name":           nameRule,
			"status":         statusRule,
			"account_id":     plainRef(LookupAccount, "-"),
			"contact_id":     plainRef(LookupContact, "-"),
			"sales_order_id": plainRef(LookupSalesOrder, "-"),
			"subtotal":       currencyRule,
			"tax_amount":     currencyRule,
			"total_amount":   currencyRule,
			"amount_paid":    currencyRule,
			"due_date":       dateRule,
		},
		DateFields: NewFieldSet("due_date"),
		StatusColors: map[string]string{
			"draft":          "#6b7280",
			"sent":           "#3b82f6",
			"paid":           "#10b981",
			"partially_paid": "#f59e0b",
			"overdue":        "#ef4444",
			"cancelled":      "#9ca3af",
		},
		StatusField:    "status",
		CreatedDefault: "Draft",
	}
}

// PurchaseOrder describes purchase order activity.
func PurchaseOrder() *Descriptor {
	return &Descriptor{
		Entity:         EntityPurchaseOrder,
		ExcludedFields: baseExcluded(),
		Rules: map[string]FieldRule{
			"name":                      nameRule,
			"status":                    statusRule,
			"account_id":                plainRef(LookupAccount, "-"),
			"contact_id":                plainRef(LookupContact, "-"),
			"sales_order_id":            plainRef(LookupSalesOrder, "-"),
			"shipping_provider_type_id": plainRef(LookupShippingProviderType, "-"),
			"subtotal":                  currencyRule,
			"tax_amount":                currencyRule,
			"total_amount":              currencyRule,
			"expected_delivery_date":    dateRule,
		},
		DateFields: NewFieldSet("expected_delivery_date"),
		StatusColors: map[string]string{
			"draft":     "#6b7280",
			"submitted": "#3b82f6",
			"approved":  "#8b5cf6",
			"received":  "#10b981",
			"cancelled": "#ef4444",
		},
		StatusField:    "status",
		CreatedDefault: "Draft",
	}
}

// Registry maps entity type names to descriptors.
type Registry map[string]*Descriptor

// DefaultRegistry returns descriptors for every tracked entity type.
func DefaultRegistry() Registry {
	reg := Registry{}
	for _, d := range []*Descriptor{
		Account(),
		Lead(),
		Opportunity(),
		Quote(),
		SalesOrder(),
		Invoice(),
		PurchaseOrder(),
	} {
		reg[d.Entity] = d
	}
	return reg
}

// Lookup returns the descriptor for an entity type.
func (r Registry) Lookup(entityType string) (*Descriptor, error) {
	d, ok := r[strings.ToLower(strings.TrimSpace(entityType))]
	if !ok {
		return nil, ErrUnknownEntity
	}
	return d, nil
}

// EntityTypes returns the registered entity type names, sorted.
func (r Registry) EntityTypes() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
