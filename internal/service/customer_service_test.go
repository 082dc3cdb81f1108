package service

import (
	"context"
	"testing"

	"github.com/supportops/ticketsync/internal/domain"
)

func TestCheckFreshdeskField(t *testing.T) {
	customers := &fakeCustomers{
		hasFD:  true,
		fdType: "rich_text",
		customers: []domain.Customer{
			{ID: "a", FreshdeskID: "1"},
			{ID: "b", FreshdeskID: " "},
			{ID: "c"},
		},
	}
	check, err := NewCustomerService(customers, nil).CheckFreshdeskField(context.Background(), "FD ID")
	if err != nil {
		t.Fatalf("CheckFreshdeskField: %v", err)
	}
	if !check.Exists || check.Type != "rich_text" || check.Populated != 1 {
		t.Fatalf("check = %+v", check)
	}
}

func TestCheckFreshdeskFieldMissing(t *testing.T) {
	check, err := NewCustomerService(&fakeCustomers{}, nil).CheckFreshdeskField(context.Background(), "FD ID")
	if err != nil {
		t.Fatalf("CheckFreshdeskField: %v", err)
	}
	if check.Exists || check.Populated != 0 {
		t.Fatalf("check = %+v", check)
	}
}

func TestListCompaniesSortedByName(t *testing.T) {
	helpdesk := newFakeHelpdesk()
	helpdesk.companies = []domain.Company{{ID: 1, Name: "globex"}, {ID: 2, Name: "Acme"}, {ID: 3, Name: "Initech"}}

	companies, err := NewCustomerService(&fakeCustomers{}, helpdesk).ListCompanies(context.Background())
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if companies[0].Name != "Acme" || companies[2].Name != "Initech" {
		t.Fatalf("companies = %+v", companies)
	}
}
