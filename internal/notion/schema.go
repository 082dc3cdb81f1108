package notion

import (
	_ "embed"
	"fmt"

	"github.com/jomei/notionapi"
	"gopkg.in/yaml.v3"
)

//go:embed schema/support_tickets.yaml
var supportTicketsSchema []byte

// RelationEngagements marks a relation that points at the customer registry.
const RelationEngagements = "engagements"

// DatabaseSchema is the fixed definition of a database the tool can create.
type DatabaseSchema struct {
	Title      string           `yaml:"title"`
	Properties []PropertySchema `yaml:"properties"`
}

// PropertySchema is one column definition.
type PropertySchema struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Relation string         `yaml:"relation,omitempty"`
	Format   string         `yaml:"format,omitempty"`
	Options  []OptionSchema `yaml:"options,omitempty"`
}

// OptionSchema is a select option.
type OptionSchema struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// SupportTicketsSchema returns the embedded ticket database definition.
func SupportTicketsSchema() (*DatabaseSchema, error) {
	return ParseSchema(supportTicketsSchema)
}

// ParseSchema decodes and validates a YAML database definition.
func ParseSchema(data []byte) (*DatabaseSchema, error) {
	var schema DatabaseSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if schema.Title == "" {
		return nil, fmt.Errorf("schema title is required")
	}
	titles := 0
	seen := make(map[string]struct{}, len(schema.Properties))
	for _, prop := range schema.Properties {
		if prop.Name == "" || prop.Type == "" {
			return nil, fmt.Errorf("schema property requires name and type")
		}
		if _, dup := seen[prop.Name]; dup {
			return nil, fmt.Errorf("duplicate schema property %q", prop.Name)
		}
		seen[prop.Name] = struct{}{}
		if prop.Type == "title" {
			titles++
		}
	}
	if titles != 1 {
		return nil, fmt.Errorf("schema must have exactly one title property, found %d", titles)
	}
	return &schema, nil
}

// Names returns the property names in declaration order.
func (s *DatabaseSchema) Names() []string {
	names := make([]string, 0, len(s.Properties))
	for _, prop := range s.Properties {
		names = append(names, prop.Name)
	}
	return names
}

// PropertyConfigs converts the schema into API property configurations.
// relationTargets maps a schema relation key to a database id.
func (s *DatabaseSchema) PropertyConfigs(relationTargets map[string]string) (notionapi.PropertyConfigs, error) {
	configs := make(notionapi.PropertyConfigs, len(s.Properties))
	for _, prop := range s.Properties {
		kind := notionapi.PropertyConfigType(prop.Type)
		switch prop.Type {
		case "title":
			configs[prop.Name] = notionapi.TitlePropertyConfig{Type: kind}
		case "rich_text":
			configs[prop.Name] = notionapi.RichTextPropertyConfig{Type: kind}
		case "number":
			format := prop.Format
			if format == "" {
				format = "number"
			}
			configs[prop.Name] = notionapi.NumberPropertyConfig{Type: kind, Number: notionapi.NumberFormat{Format: notionapi.FormatType(format)}}
		case "select":
			configs[prop.Name] = notionapi.SelectPropertyConfig{Type: kind, Select: notionapi.Select{Options: options(prop.Options)}}
		case "multi_select":
			configs[prop.Name] = notionapi.MultiSelectPropertyConfig{Type: kind, MultiSelect: notionapi.Select{Options: options(prop.Options)}}
		case "date":
			configs[prop.Name] = notionapi.DatePropertyConfig{Type: kind}
		case "people":
			configs[prop.Name] = notionapi.PeoplePropertyConfig{Type: kind}
		case "last_edited_time":
			configs[prop.Name] = notionapi.LastEditedTimePropertyConfig{Type: kind}
		case "relation":
			target := relationTargets[prop.Relation]
			if target == "" {
				return nil, fmt.Errorf("no database configured for relation %q of property %q", prop.Relation, prop.Name)
			}
			configs[prop.Name] = notionapi.RelationPropertyConfig{
				Type: kind,
				Relation: notionapi.RelationConfig{
					DatabaseID:     notionapi.DatabaseID(target),
					Type:           notionapi.RelationConfigType("single_property"),
					SingleProperty: &notionapi.SingleProperty{},
				},
			}
		default:
			return nil, fmt.Errorf("unsupported schema property type %q", prop.Type)
		}
	}
	return configs, nil
}

func options(in []OptionSchema) []notionapi.Option {
	out := make([]notionapi.Option, 0, len(in))
	for _, opt := range in {
		out = append(out, notionapi.Option{Name: opt.Name, Color: notionapi.Color(opt.Color)})
	}
	return out
}
