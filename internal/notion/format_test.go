package notion

import (
	"strings"
	"testing"
	"time"

	"github.com/jomei/notionapi"
)

func date(year int, month time.Month, day int) *notionapi.Date {
	d := notionapi.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	return &d
}

func TestFormatMultiSelectJoinsLabelsInOrder(t *testing.T) {
	prop := &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{{Name: "Bug"}, {Name: "Billing"}}}
	if got := (Formatter{}).Format(prop); got != "Bug, Billing" {
		t.Fatalf("expected %q, got %q", "Bug, Billing", got)
	}
}

func TestFormatDate(t *testing.T) {
	cases := []struct {
		name string
		prop *notionapi.DateProperty
		want string
	}{
		{name: "unset", prop: &notionapi.DateProperty{}, want: ""},
		{name: "start only", prop: &notionapi.DateProperty{Date: &notionapi.DateObject{Start: date(2024, 1, 1)}}, want: "2024-01-01"},
		{name: "range", prop: &notionapi.DateProperty{Date: &notionapi.DateObject{Start: date(2024, 1, 1), End: date(2024, 1, 5)}}, want: "2024-01-01 → 2024-01-05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := (Formatter{}).Format(tc.prop); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormatTextKindsConcatenateSegments(t *testing.T) {
	title := &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "FD-1"}, {PlainText: ": Login broken"}}}
	if got := (Formatter{}).Format(title); got != "FD-1: Login broken" {
		t.Fatalf("unexpected title %q", got)
	}
	rich := &notionapi.RichTextProperty{RichText: RichText("12345")}
	if got := (Formatter{}).Format(rich); got != "12345" {
		t.Fatalf("unexpected rich text %q", got)
	}
}

func TestFormatSelectAndStatus(t *testing.T) {
	f := Formatter{}
	if got := f.Format(&notionapi.SelectProperty{}); got != "" {
		t.Fatalf("expected empty select, got %q", got)
	}
	if got := f.Format(&notionapi.SelectProperty{Select: notionapi.Option{Name: "Open"}}); got != "Open" {
		t.Fatalf("unexpected select %q", got)
	}
	if got := f.Format(&notionapi.StatusProperty{Status: notionapi.Status{Name: "In progress"}}); got != "In progress" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestFormatRelationModes(t *testing.T) {
	prop := &notionapi.RelationProperty{Relation: []notionapi.Relation{{ID: "a1"}, {ID: "b2"}}}
	if got := (Formatter{Relations: RelationIDs}).Format(prop); got != "a1, b2" {
		t.Fatalf("unexpected ids rendering %q", got)
	}
	if got := (Formatter{Relations: RelationPresence}).Format(prop); got != "✓" {
		t.Fatalf("unexpected presence rendering %q", got)
	}
	empty := &notionapi.RelationProperty{}
	if got := (Formatter{Relations: RelationPresence}).Format(empty); got != "" {
		t.Fatalf("expected empty presence rendering, got %q", got)
	}
}

func TestFormatFormulaAndRollupRecurse(t *testing.T) {
	f := Formatter{}
	formula := &notionapi.FormulaProperty{Formula: notionapi.Formula{Type: "number", Number: 42.5}}
	if got := f.Format(formula); got != "42.5" {
		t.Fatalf("unexpected formula %q", got)
	}
	boolFormula := &notionapi.FormulaProperty{Formula: notionapi.Formula{Type: "boolean", Boolean: true}}
	if got := f.Format(boolFormula); got != "✓" {
		t.Fatalf("unexpected boolean formula %q", got)
	}
	rollup := &notionapi.RollupProperty{Rollup: notionapi.Rollup{
		Type: "array",
		Array: notionapi.PropertyArray{
			&notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Acme"}}},
			&notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Globex"}}},
		},
	}}
	if got := f.Format(rollup); got != "Acme, Globex" {
		t.Fatalf("unexpected rollup %q", got)
	}
}

func TestFormatPeopleFallsBackToID(t *testing.T) {
	prop := &notionapi.PeopleProperty{People: []notionapi.User{{Name: "Dana"}, {ID: "u-2"}}}
	if got := (Formatter{}).Format(prop); got != "Dana, u-2" {
		t.Fatalf("unexpected people %q", got)
	}
}

func TestFormatNilAndUnknown(t *testing.T) {
	f := Formatter{}
	if got := f.Format(nil); got != "" {
		t.Fatalf("expected empty for nil, got %q", got)
	}
	var typedNil *notionapi.TitleProperty
	if got := f.Format(typedNil); got != "" {
		t.Fatalf("expected empty for typed nil, got %q", got)
	}
	unknown := &notionapi.UniqueIDProperty{Type: "unique_id"}
	if got := f.Format(unknown); !strings.Contains(got, "unique_id") {
		t.Fatalf("expected raw dump for unknown kind, got %q", got)
	}
}

func TestLooksLikeID(t *testing.T) {
	if !LooksLikeID("257f2e46-adcf-8003-8cf3-cf5d3acf2285") {
		t.Fatalf("dashed id not recognised")
	}
	if !LooksLikeID("257f2e46adcf80038cf3cf5d3acf2285") {
		t.Fatalf("compact id not recognised")
	}
	if LooksLikeID("Support Tickets") {
		t.Fatalf("name treated as id")
	}
}
