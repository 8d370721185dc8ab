package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LookupType names a kind of reference record.
type LookupType string

const (
	LookupUser                 LookupType = "user"
	LookupAccountType          LookupType = "account_type"
	LookupAccountIndustry      LookupType = "account_industry"
	LookupLeadStatus           LookupType = "lead_status"
	LookupLeadSource           LookupType = "lead_source"
	LookupCampaign             LookupType = "campaign"
	LookupOpportunityStage     LookupType = "opportunity_stage"
	LookupOpportunitySource    LookupType = "opportunity_source"
	LookupContact              LookupType = "contact"
	LookupSalesOrder           LookupType = "sales_order"
	LookupShippingProviderType LookupType = "shipping_provider_type"
	LookupAccount              LookupType = "account"
	LookupQuote                LookupType = "quote"
	LookupOpportunity          LookupType = "opportunity"
)

var lookupTypes = []LookupType{
	LookupUser,
	LookupAccountType,
	LookupAccountIndustry,
	LookupLeadStatus,
	LookupLeadSource,
	LookupCampaign,
	LookupOpportunityStage,
	LookupOpportunitySource,
	LookupContact,
	LookupSalesOrder,
	LookupShippingProviderType,
	LookupAccount,
	LookupQuote,
	LookupOpportunity,
}

// LookupTypes returns every supported lookup type.
func LookupTypes() []LookupType {
	return append([]LookupType(nil), lookupTypes...)
}

// Valid reports whether t is a supported lookup type.
func (t LookupType) Valid() bool {
	for _, known := range lookupTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Reference is the current display form of a referenced record.
type Reference struct {
	Label string
	Color string
}

// Resolver looks up reference records at call time. It reports false when
// the id is empty or the record no longer exists, and must not fail.
type Resolver interface {
	Resolve(ctx context.Context, tenantID string, lookupType LookupType, id any) (Reference, bool)
}

// ReferenceKey converts a foreign-key value from a snapshot into the
// string id used by lookup storage.
func ReferenceKey(id any) (string, bool) {
	switch x := id.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case *string:
		if x == nil {
			return "", false
		}
		return ReferenceKey(*x)
	case json.Number:
		return ReferenceKey(x.String())
	case float32:
		return floatKey(float64(x))
	case float64:
		return floatKey(x)
	case int:
		return strconv.Itoa(x), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case bool:
		return "", false
	}
	if f, ok := toFloat(id); ok {
		return floatKey(f)
	}
	s := strings.TrimSpace(fmt.Sprint(id))
	return s, s != ""
}

func floatKey(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10), true
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
