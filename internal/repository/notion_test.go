package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/notion"
)

var testSchema = config.SchemaConfig{
	CustomerNameProperty:      "Company",
	CustomerFreshdeskProperty: "FD ID",
	TicketTitleProperty:       "Ticket ID",
	TicketCustomerProperty:    "Customer",
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

// notionServer answers workspace API calls from a canned response queue and
// records every request.
type notionServer struct {
	mu        sync.Mutex
	requests  []recordedRequest
	responses []string
}

func (s *notionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	s.mu.Lock()
	s.requests = append(s.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
	resp := `{}`
	if len(s.responses) > 0 {
		resp, s.responses = s.responses[0], s.responses[1:]
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, resp)
}

type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newNotionClient(t *testing.T, responses ...string) (*notionapi.Client, *notionServer) {
	t.Helper()
	fake := &notionServer{responses: responses}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	target, _ := url.Parse(srv.URL)
	client := notion.NewClient(config.NotionConfig{Token: "secret"}, &http.Client{Transport: rewriteTransport{target: target}})
	return client, fake
}

func pageJSON(id, props string) string {
	return `{"object":"page","id":"` + id + `","created_time":"2024-03-01T10:00:00.000Z","last_edited_time":"2024-03-01T10:00:00.000Z",` +
		`"parent":{"type":"database_id","database_id":"db"},"archived":false,"url":"https://www.notion.so/` + id + `","properties":{` + props + `}}`
}

func listJSON(hasMore bool, next string, pages ...string) string {
	cursor := "null"
	if next != "" {
		cursor = `"` + next + `"`
	}
	more := "false"
	if hasMore {
		more = "true"
	}
	return `{"object":"list","results":[` + strings.Join(pages, ",") + `],"has_more":` + more + `,"next_cursor":` + cursor + `}`
}

func titleProp(name, text string) string {
	return `"` + name + `":{"id":"title","type":"title","title":[{"type":"text","text":{"content":"` + text + `"},"plain_text":"` + text + `"}]}`
}

func richTextProp(name, text string) string {
	return `"` + name + `":{"id":"rt","type":"rich_text","rich_text":[{"type":"text","text":{"content":"` + text + `"},"plain_text":"` + text + `"}]}`
}

func TestListWithFreshdeskIDFiltersAndPaginates(t *testing.T) {
	client, fake := newNotionClient(t,
		listJSON(true, "cursor-2", pageJSON("c1", titleProp("Company", "Acme")+","+richTextProp("FD ID", "42"))),
		listJSON(false, "", pageJSON("c2", titleProp("Company", "Globex")+","+richTextProp("FD ID", " 7 "))),
	)
	repo := NewCustomerRepository(client, "engagements", testSchema)

	customers, err := repo.ListWithFreshdeskID(context.Background())
	if err != nil {
		t.Fatalf("ListWithFreshdeskID: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("customers = %+v", customers)
	}
	if customers[0].Name != "Acme" || customers[0].FreshdeskID != "42" || customers[1].HelpdeskCompanyID() != "7" {
		t.Fatalf("customers = %+v", customers)
	}

	if len(fake.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(fake.requests))
	}
	first := fake.requests[0]
	if first.Method != http.MethodPost || first.Path != "/v1/databases/engagements/query" {
		t.Fatalf("first request = %s %s", first.Method, first.Path)
	}
	filter, _ := first.Body["filter"].(map[string]any)
	if filter["property"] != "FD ID" {
		t.Fatalf("filter = %v", filter)
	}
	if cond, _ := filter["rich_text"].(map[string]any); cond["is_not_empty"] != true {
		t.Fatalf("filter condition = %v", filter["rich_text"])
	}
	if first.Body["page_size"] != float64(notionPageSize) {
		t.Fatalf("page_size = %v", first.Body["page_size"])
	}
	if fake.requests[1].Body["start_cursor"] != "cursor-2" {
		t.Fatalf("second request cursor = %v", fake.requests[1].Body["start_cursor"])
	}
}

func TestTicketCreateWritesLinkedTitleAndRelation(t *testing.T) {
	client, fake := newNotionClient(t, pageJSON("t1", titleProp("Ticket ID", "FD-9: Login")))
	repo := NewTicketRepository(client, "tickets", testSchema)

	ticket := &domain.MirroredTicket{
		Key:         "FD-9: Login",
		Link:        "https://acme.freshdesk.com/a/tickets/9",
		CustomerIDs: []string{"cust-1"},
		Status:      "Open",
		Priority:    "High",
		Agent:       "Dana",
		FreshdeskID: "9",
		CreatedDate: time.Date(2024, 5, 1, 23, 15, 0, 0, time.UTC),
	}
	if err := repo.Create(context.Background(), ticket); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.ID != "t1" {
		t.Fatalf("ID = %q", ticket.ID)
	}

	req := fake.requests[0]
	if req.Method != http.MethodPost || req.Path != "/v1/pages" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	parent, _ := req.Body["parent"].(map[string]any)
	if parent["database_id"] != "tickets" {
		t.Fatalf("parent = %v", parent)
	}
	props, _ := req.Body["properties"].(map[string]any)
	title := props["Ticket ID"].(map[string]any)["title"].([]any)[0].(map[string]any)["text"].(map[string]any)
	if title["content"] != "FD-9: Login" {
		t.Fatalf("title = %v", title)
	}
	if link, _ := title["link"].(map[string]any); link["url"] != ticket.Link {
		t.Fatalf("link = %v", title["link"])
	}
	relation := props["Customer"].(map[string]any)["relation"].([]any)
	if len(relation) != 1 || relation[0].(map[string]any)["id"] != "cust-1" {
		t.Fatalf("relation = %v", relation)
	}
	if status := props["Status"].(map[string]any)["select"].(map[string]any); status["name"] != "Open" {
		t.Fatalf("status = %v", status)
	}
	created := props["Created Date"].(map[string]any)["date"].(map[string]any)
	if created["start"] != "2024-05-01" {
		t.Fatalf("created date start = %v", created["start"])
	}
	if _, ok := props[PropTags]; ok {
		t.Fatal("sync tickets carry no tags")
	}
}

func TestTicketArchive(t *testing.T) {
	client, fake := newNotionClient(t, pageJSON("t1", ""))
	repo := NewTicketRepository(client, "tickets", testSchema)

	if err := repo.Archive(context.Background(), "t1"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	req := fake.requests[0]
	if req.Method != http.MethodPatch || req.Path != "/v1/pages/t1" || req.Body["archived"] != true {
		t.Fatalf("request = %+v", req)
	}
}

func TestListByCustomerFormatsRows(t *testing.T) {
	client, fake := newNotionClient(t, listJSON(false, "",
		pageJSON("t1", titleProp("Ticket ID", "FD-1: A")+`,"Customer":{"id":"r","type":"relation","relation":[{"id":"cust-1"}]},`+
			`"Status":{"id":"s","type":"select","select":{"name":"Pending"}}`),
	))
	repo := NewTicketRepository(client, "tickets", testSchema)

	tickets, err := repo.ListByCustomer(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("tickets = %+v", tickets)
	}
	got := tickets[0]
	if got.Key != "FD-1: A" || got.Status != "Pending" || len(got.CustomerIDs) != 1 || got.CustomerIDs[0] != "cust-1" {
		t.Fatalf("ticket = %+v", got)
	}
	if got.Display["Customer"] != "✓" {
		t.Fatalf("relation display = %q", got.Display["Customer"])
	}

	filter, _ := fake.requests[0].Body["filter"].(map[string]any)
	if filter["property"] != "Customer" {
		t.Fatalf("filter = %v", filter)
	}
	sorts, _ := fake.requests[0].Body["sorts"].([]any)
	if len(sorts) != 1 || sorts[0].(map[string]any)["direction"] != "descending" {
		t.Fatalf("sorts = %v", sorts)
	}
}
