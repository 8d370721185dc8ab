package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/crmtrail/internal/domain/recorder"
)

const serverInstructions = `crmtrail keeps a per-entity activity stream for CRM records
(accounts, leads, opportunities, quotes, sales orders, invoices, purchase orders).

Workflow:
1) Keep reference data current with upsert_lookup (users, statuses, stages, types, ...).
   Entity fields point at lookups by id; labels are resolved when the activity is written.
2) After saving an entity, call notify_entity_created with the full field snapshot, or
   notify_entity_updated with the before and after snapshots of the save.
3) Post comments with submit_comment.
4) Read the timeline with list_activity.

Identify the acting user with the X-Actor-Id and X-Actor-Name headers (HTTP) or
_meta.actor_id and _meta.actor_name (stdio). Without one, the entity creator is used.

Docs:
- crmtrail://docs/activity-feed
- crmtrail://docs/field-rendering
- crmtrail://docs/entities
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "crmtrail://docs/activity-feed",
		Name:        "docs_activity_feed",
		Title:       "Activity feed",
		Description: "What each lifecycle call records and how the stream is ordered.",
		Content: `# Activity feed

## Records

- ` + "`created`" + `: one per entity. ` + "`new_values`" + ` holds the full snapshot; the description is the initial status.
- ` + "`assigned`" + `: follows ` + "`created`" + ` when the new entity has an ` + "`assigned_to`" + ` user. Titled "self-assigned" when the creator is the assignee.
- ` + "`updated`" + `: one per changed field, ` + "`field_changed`" + ` names it and ` + "`old_values`" + `/` + "`new_values`" + ` hold only that field.
- ` + "`comment`" + `: free text in ` + "`description`" + `, no ` + "`field_changed`" + `.

## Notes

- An update with no changed field records nothing. ` + "`updated_at`" + ` never counts as a change.
- The same create reported twice is recorded once. The same change set reported twice in a row is
  recorded once; reverting and re-applying a change records each save.
- Lists are newest first; pass ` + "`oldest_first`" + ` for chronological order.
`,
	},
	{
		URI:         "crmtrail://docs/field-rendering",
		Name:        "docs_field_rendering",
		Title:       "Field rendering",
		Description: "How titles and descriptions are rendered per field kind.",
		Content: `# Field rendering

Descriptions read "<old> into <new>" and carry light HTML markup.

- Status fields render as colored badges from the entity's status palette.
- Assignments render user names, "Unassigned" when empty.
- Colored references (account type, account industry, lead status, opportunity stage) render
  a colored dot; the old and new colors are also stored in ` + "`new_values`" + ` as
  ` + "`old_<field>_color`" + ` and ` + "`<field>_color`" + `.
- Other references render the current lookup name, "None" or "-" when unresolved.
- Money fields render with the configured currency symbol and two decimals.
- Dates render with the configured layout.
- Anything else shows the raw old and new values.
`,
	},
}

// entitiesDoc lists the entity types and lookup types known to reg.
func entitiesDoc(reg recorder.Registry) docResource {
	var b strings.Builder
	b.WriteString("# Entities\n\n")
	for _, name := range reg.EntityTypes() {
		d, err := reg.Lookup(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "- `%s`", name)
		if d.StatusField != "" {
			fmt.Fprintf(&b, ": status in `%s`", d.StatusField)
		}
		if colored := d.ColorFields(); len(colored) > 0 {
			fmt.Fprintf(&b, "; colors stored for `%s`", strings.Join(colored, "`, `"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Lookup types\n\n")
	for _, t := range recorder.LookupTypes() {
		fmt.Fprintf(&b, "- `%s`\n", t)
	}

	return docResource{
		URI:         "crmtrail://docs/entities",
		Name:        "docs_entities",
		Title:       "Entities",
		Description: "Supported entity types, their colored fields and lookup types.",
		Content:     b.String(),
	}
}

func registerDocResources(server *sdkmcp.Server) {
	docs := append(append([]docResource(nil), docResources...), entitiesDoc(recorder.DefaultRegistry()))
	for _, doc := range docs {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
