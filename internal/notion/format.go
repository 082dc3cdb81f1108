package notion

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

// RelationMode selects how relation properties render.
type RelationMode int

const (
	// RelationIDs joins the related page ids with ", ".
	RelationIDs RelationMode = iota
	// RelationPresence renders "✓" when at least one relation exists.
	RelationPresence
)

const (
	presentMark = "✓"
	absentMark  = "✗"
	rangeArrow  = " → "
	listSep     = ", "
)

// Formatter renders typed property values as plain display strings.
type Formatter struct {
	Relations RelationMode
}

// Format returns the plain-text representation of prop. It never performs I/O.
func (f Formatter) Format(prop notionapi.Property) string {
	if isNil(prop) {
		return ""
	}
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return PlainText(p.Title)
	case *notionapi.RichTextProperty:
		return PlainText(p.RichText)
	case *notionapi.NumberProperty:
		return strconv.FormatFloat(p.Number, 'f', -1, 64)
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.StatusProperty:
		return p.Status.Name
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			names = append(names, opt.Name)
		}
		return strings.Join(names, listSep)
	case *notionapi.DateProperty:
		return formatDateObject(p.Date)
	case *notionapi.PeopleProperty:
		names := make([]string, 0, len(p.People))
		for _, u := range p.People {
			names = append(names, userName(u))
		}
		return strings.Join(names, listSep)
	case *notionapi.FilesProperty:
		names := make([]string, 0, len(p.Files))
		for _, file := range p.Files {
			names = append(names, file.Name)
		}
		return strings.Join(names, listSep)
	case *notionapi.CheckboxProperty:
		if p.Checkbox {
			return presentMark
		}
		return absentMark
	case *notionapi.URLProperty:
		return p.URL
	case *notionapi.EmailProperty:
		return p.Email
	case *notionapi.PhoneNumberProperty:
		return p.PhoneNumber
	case *notionapi.RelationProperty:
		if f.Relations == RelationPresence {
			if len(p.Relation) > 0 {
				return presentMark
			}
			return ""
		}
		ids := make([]string, 0, len(p.Relation))
		for _, rel := range p.Relation {
			ids = append(ids, string(rel.ID))
		}
		return strings.Join(ids, listSep)
	case *notionapi.FormulaProperty:
		return f.formatFormula(p.Formula)
	case *notionapi.RollupProperty:
		return f.formatRollup(p.Rollup)
	case *notionapi.CreatedTimeProperty:
		return p.CreatedTime.Format(time.RFC3339)
	case *notionapi.LastEditedTimeProperty:
		return p.LastEditedTime.Format(time.RFC3339)
	case *notionapi.CreatedByProperty:
		return userName(p.CreatedBy)
	case *notionapi.LastEditedByProperty:
		return userName(p.LastEditedBy)
	default:
		raw, err := json.Marshal(prop)
		if err != nil {
			return string(prop.GetType())
		}
		return string(raw)
	}
}

// FormatAll formats every property of a page keyed by property name.
func (f Formatter) FormatAll(props notionapi.Properties) map[string]string {
	out := make(map[string]string, len(props))
	for name, prop := range props {
		out[name] = f.Format(prop)
	}
	return out
}

func (f Formatter) formatFormula(formula notionapi.Formula) string {
	switch formula.Type {
	case "string":
		return f.Format(&notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: formula.String}}})
	case "number":
		return f.Format(&notionapi.NumberProperty{Number: formula.Number})
	case "boolean":
		return f.Format(&notionapi.CheckboxProperty{Checkbox: formula.Boolean})
	case "date":
		return f.Format(&notionapi.DateProperty{Date: formula.Date})
	default:
		return ""
	}
}

func (f Formatter) formatRollup(rollup notionapi.Rollup) string {
	switch rollup.Type {
	case "array":
		parts := make([]string, 0, len(rollup.Array))
		for _, item := range rollup.Array {
			parts = append(parts, f.Format(item))
		}
		return strings.Join(parts, listSep)
	case "number":
		return f.Format(&notionapi.NumberProperty{Number: rollup.Number})
	case "date":
		return f.Format(&notionapi.DateProperty{Date: rollup.Date})
	default:
		return ""
	}
}

func formatDateObject(d *notionapi.DateObject) string {
	if d == nil || d.Start == nil {
		return ""
	}
	out := FormatDate(time.Time(*d.Start))
	if d.End != nil {
		out += rangeArrow + FormatDate(time.Time(*d.End))
	}
	return out
}

// FormatDate renders date-only values as YYYY-MM-DD and others as RFC 3339.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func userName(u notionapi.User) string {
	if u.Name != "" {
		return u.Name
	}
	return string(u.ID)
}

func isNil(prop notionapi.Property) bool {
	if prop == nil {
		return true
	}
	v := reflect.ValueOf(prop)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
