package recorder

import (
	"context"
	"fmt"
	"html"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// FormatOptions controls value rendering.
type FormatOptions struct {
	CurrencySymbol string
	DateLayout     string
	DefaultColor   string
}

// DefaultFormatOptions returns US-style currency and dates with a gray badge default.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		CurrencySymbol: "$",
		DateLayout:     "Jan 2, 2006",
		DefaultColor:   "#6b7280",
	}
}

// Rendering is the formatted form of one field change.
type Rendering struct {
	Title       string
	Description string
	// OldColor and NewColor hold resolved reference colors for fields with
	// a ColorKey; empty when unresolved.
	OldColor string
	NewColor string
}

// Formatter renders field changes into activity titles and descriptions.
type Formatter struct {
	resolver Resolver
	opts     FormatOptions
}

// NewFormatter creates a formatter. Zero option values take defaults.
func NewFormatter(resolver Resolver, opts FormatOptions) *Formatter {
	defaults := DefaultFormatOptions()
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = defaults.CurrencySymbol
	}
	if opts.DateLayout == "" {
		opts.DateLayout = defaults.DateLayout
	}
	if opts.DefaultColor == "" {
		opts.DefaultColor = defaults.DefaultColor
	}
	return &Formatter{resolver: resolver, opts: opts}
}

// Title renders the short sentence for a field change.
func (f *Formatter) Title(ctx context.Context, tenantID string, d *Descriptor, field string, oldValue, newValue any, actorName string) string {
	return f.Render(ctx, tenantID, d, Change{Field: field, Old: oldValue, New: newValue}, actorName).Title
}

// Description renders the markup fragment describing a field change.
func (f *Formatter) Description(ctx context.Context, tenantID string, d *Descriptor, field string, oldValue, newValue any) string {
	return f.Render(ctx, tenantID, d, Change{Field: field, Old: oldValue, New: newValue}, "").Description
}

// Render produces title, description and resolved colors for a change,
// resolving each reference once.
func (f *Formatter) Render(ctx context.Context, tenantID string, d *Descriptor, ch Change, actorName string) Rendering {
	rule := d.Rule(ch.Field)
	generic := fmt.Sprintf("%s updated %s", actorName, Humanize(ch.Field))

	switch rule.Kind {
	case RuleStatus:
		return Rendering{
			Title:       fmt.Sprintf("%s updated status", actorName),
			Description: joinInto(f.statusBadge(d, ch.Old), f.statusBadge(d, ch.New)),
		}

	case RuleAssignment:
		oldName := f.label(ctx, tenantID, LookupUser, ch.Old, "Unassigned")
		newName := f.label(ctx, tenantID, LookupUser, ch.New, "Unassigned")
		title := fmt.Sprintf("%s assigned to %s", actorName, newName)
		if newName == actorName {
			title = fmt.Sprintf("%s self-assigned this %s", actorName, d.Label())
		}
		return Rendering{
			Title:       title,
			Description: joinInto(html.EscapeString(oldName), html.EscapeString(newName)),
		}

	case RuleColoredReference:
		oldRef, oldOK := f.resolve(ctx, tenantID, rule.Lookup, ch.Old)
		newRef, newOK := f.resolve(ctx, tenantID, rule.Lookup, ch.New)
		return Rendering{
			Title:       generic,
			Description: joinInto(f.colorDot(oldRef, oldOK, rule.Fallback), f.colorDot(newRef, newOK, rule.Fallback)),
			OldColor:    oldRef.Color,
			NewColor:    newRef.Color,
		}

	case RulePlainReference:
		return Rendering{
			Title: generic,
			Description: joinInto(
				html.EscapeString(f.label(ctx, tenantID, rule.Lookup, ch.Old, fallbackOr(rule.Fallback, "None"))),
				html.EscapeString(f.label(ctx, tenantID, rule.Lookup, ch.New, fallbackOr(rule.Fallback, "None"))),
			),
		}

	case RuleCurrency:
		return Rendering{
			Title:       generic,
			Description: joinInto(f.currency(ch.Old), f.currency(ch.New)),
		}

	case RuleDate:
		return Rendering{
			Title:       generic,
			Description: joinInto(f.date(ch.Old), f.date(ch.New)),
		}

	case RuleName:
		return Rendering{
			Title:       fmt.Sprintf("%s updated name", actorName),
			Description: joinInto(strong(plainText(ch.Old, "None")), strong(plainText(ch.New, "None"))),
		}
	}

	if d.isDateField(ch.Field) {
		return Rendering{
			Title:       generic,
			Description: joinInto(f.date(ch.Old), f.date(ch.New)),
		}
	}
	return Rendering{
		Title: generic,
		Description: joinInto(
			fmt.Sprintf(`<span class="activity-old">%s</span>`, plainText(ch.Old, "None")),
			fmt.Sprintf(`<span class="activity-new">%s</span>`, plainText(ch.New, "None")),
		),
	}
}

// Humanize turns a field name into a title fragment by replacing "_id"
// and then "_" with spaces. The result is not trimmed.
func Humanize(field string) string {
	return strings.ReplaceAll(strings.ReplaceAll(field, "_id", " "), "_", " ")
}

// StatusLabel capitalizes a status value for display: "partially_paid"
// becomes "Partially paid".
func StatusLabel(value string) string {
	s := strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func (f *Formatter) resolve(ctx context.Context, tenantID string, lookupType LookupType, id any) (Reference, bool) {
	if f.resolver == nil {
		return Reference{}, false
	}
	if _, ok := ReferenceKey(id); !ok {
		return Reference{}, false
	}
	return f.resolver.Resolve(ctx, tenantID, lookupType, id)
}

func (f *Formatter) label(ctx context.Context, tenantID string, lookupType LookupType, id any, fallback string) string {
	ref, ok := f.resolve(ctx, tenantID, lookupType, id)
	if !ok || ref.Label == "" {
		return fallback
	}
	return ref.Label
}

func (f *Formatter) statusBadge(d *Descriptor, value any) string {
	s, _ := value.(string)
	if s == "" && value != nil {
		s = fmt.Sprint(value)
	}
	if s == "" {
		return badge("None", f.opts.DefaultColor)
	}
	color, ok := d.StatusColors[strings.ToLower(s)]
	if !ok {
		color = f.opts.DefaultColor
	}
	return badge(StatusLabel(s), color)
}

func (f *Formatter) colorDot(ref Reference, ok bool, fallback string) string {
	if !ok || ref.Label == "" {
		return html.EscapeString(fallbackOr(fallback, "None"))
	}
	color := ref.Color
	if color == "" {
		color = f.opts.DefaultColor
	}
	return fmt.Sprintf(`<span class="badge badge-dot"><span class="dot" style="background-color: %s;"></span>%s</span>`,
		html.EscapeString(color), html.EscapeString(ref.Label))
}

func (f *Formatter) currency(value any) string {
	amount, ok := toFloat(value)
	if !ok || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + f.opts.CurrencySymbol + humanize.FormatFloat("#,###.##", amount)
}

func (f *Formatter) date(value any) string {
	if t, ok := toTime(value); ok {
		return t.Format(f.opts.DateLayout)
	}
	return plainText(value, "None")
}

func badge(label, color string) string {
	return fmt.Sprintf(`<span class="badge" style="background-color: %s; color: #ffffff;">%s</span>`,
		html.EscapeString(color), html.EscapeString(label))
}

func strong(text string) string {
	return "<strong>" + text + "</strong>"
}

// plainText renders a scalar as escaped text, substituting fallback for blanks.
func plainText(value any, fallback string) string {
	switch x := value.(type) {
	case nil:
		return html.EscapeString(fallback)
	case string:
		if strings.TrimSpace(x) == "" {
			return html.EscapeString(fallback)
		}
		return html.EscapeString(x)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	}
	return html.EscapeString(fmt.Sprint(value))
}

func joinInto(oldPart, newPart string) string {
	return oldPart + " into " + newPart
}

func fallbackOr(fallback, def string) string {
	if fallback == "" {
		return def
	}
	return fallback
}
