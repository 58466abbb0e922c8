package mapper

import (
	"github.com/samber/lo"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	"github.com/whummer/stripe-xero-sync/internal/domain/source"
)

// MapContact builds the destination contact for a source customer. The
// source has no first/last name split, so the email lands in the first
// name and the last name encodes the customer id for later lookup.
func (m *Mapper) MapContact(customer *source.Customer) *ledger.Contact {
	contact := &ledger.Contact{
		Name:             lo.CoalesceOrEmpty(customer.Name, customer.Email, customer.ID),
		FirstName:        customer.Email,
		LastName:         ledger.EncodeContactLastName(customer.ID),
		Phone:            customer.Phone,
		IsCustomer:       true,
		SourceCustomerID: customer.ID,
	}
	if customer.Address != nil {
		contact.Address = &ledger.Address{
			Line1:      customer.Address.Line1,
			Line2:      customer.Address.Line2,
			City:       customer.Address.City,
			Region:     customer.Address.State,
			PostalCode: customer.Address.PostalCode,
			Country:    customer.Address.Country,
		}
	}
	return contact
}
