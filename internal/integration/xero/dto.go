package xero

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// Wire representations of the accounting API entities. Dates are sent
// as YYYY-MM-DD; responses carry a DateString in ISO form.

const responseDateLayout = "2006-01-02T15:04:05"

type contactsEnvelope struct {
	Contacts []contactDTO `json:"Contacts"`
}

type contactDTO struct {
	ContactID  string       `json:"ContactID,omitempty"`
	Name       string       `json:"Name,omitempty"`
	FirstName  string       `json:"FirstName,omitempty"`
	LastName   string       `json:"LastName,omitempty"`
	IsCustomer bool         `json:"IsCustomer,omitempty"`
	Phones     []phoneDTO   `json:"Phones,omitempty"`
	Addresses  []addressDTO `json:"Addresses,omitempty"`
}

type phoneDTO struct {
	PhoneNumber string `json:"PhoneNumber,omitempty"`
}

type addressDTO struct {
	AddressType  string `json:"AddressType,omitempty"`
	AddressLine1 string `json:"AddressLine1,omitempty"`
	AddressLine2 string `json:"AddressLine2,omitempty"`
	City         string `json:"City,omitempty"`
	Region       string `json:"Region,omitempty"`
	PostalCode   string `json:"PostalCode,omitempty"`
	Country      string `json:"Country,omitempty"`
}

type contactRefDTO struct {
	ContactID string `json:"ContactID"`
}

type invoicesEnvelope struct {
	Invoices []invoiceDTO `json:"Invoices"`
}

type invoiceDTO struct {
	InvoiceID       string          `json:"InvoiceID,omitempty"`
	Type            string          `json:"Type,omitempty"`
	Contact         *contactRefDTO  `json:"Contact,omitempty"`
	LineItems       []lineItemDTO   `json:"LineItems,omitempty"`
	Date            string          `json:"Date,omitempty"`
	DueDate         string          `json:"DueDate,omitempty"`
	DateString      string          `json:"DateString,omitempty"`
	InvoiceNumber   string          `json:"InvoiceNumber,omitempty"`
	Reference       string          `json:"Reference,omitempty"`
	URL             string          `json:"Url,omitempty"`
	CurrencyCode    string          `json:"CurrencyCode,omitempty"`
	Status          string          `json:"Status,omitempty"`
	Total           decimal.Decimal `json:"Total,omitempty"`
	FullyPaidOnDate string          `json:"FullyPaidOnDate,omitempty"`
}

type lineItemDTO struct {
	Description  string           `json:"Description,omitempty"`
	Quantity     *decimal.Decimal `json:"Quantity,omitempty"`
	UnitAmount   *decimal.Decimal `json:"UnitAmount,omitempty"`
	LineAmount   decimal.Decimal  `json:"LineAmount"`
	AccountCode  string           `json:"AccountCode,omitempty"`
	TaxType      string           `json:"TaxType,omitempty"`
	DiscountRate *decimal.Decimal `json:"DiscountRate,omitempty"`
}

type creditNotesEnvelope struct {
	CreditNotes []creditNoteDTO `json:"CreditNotes"`
}

type creditNoteDTO struct {
	CreditNoteID     string          `json:"CreditNoteID,omitempty"`
	Type             string          `json:"Type,omitempty"`
	Contact          *contactRefDTO  `json:"Contact,omitempty"`
	CreditNoteNumber string          `json:"CreditNoteNumber,omitempty"`
	Reference        string          `json:"Reference,omitempty"`
	Date             string          `json:"Date,omitempty"`
	DateString       string          `json:"DateString,omitempty"`
	Status           string          `json:"Status,omitempty"`
	LineItems        []lineItemDTO   `json:"LineItems,omitempty"`
	CurrencyCode     string          `json:"CurrencyCode,omitempty"`
	Total            decimal.Decimal `json:"Total,omitempty"`
}

type allocationDTO struct {
	Amount  decimal.Decimal          `json:"Amount"`
	Date    string                   `json:"Date,omitempty"`
	Invoice contactlessInvoiceRefDTO `json:"Invoice"`
}

type contactlessInvoiceRefDTO struct {
	InvoiceID string `json:"InvoiceID"`
}

type allocationsEnvelope struct {
	Allocations []allocationDTO `json:"Allocations"`
}

type paymentsEnvelope struct {
	Payments []paymentDTO `json:"Payments"`
}

type paymentDTO struct {
	Invoice    *contactlessInvoiceRefDTO `json:"Invoice,omitempty"`
	CreditNote *creditNoteRefDTO         `json:"CreditNote,omitempty"`
	Account    accountDTO                `json:"Account"`
	Date       string                    `json:"Date,omitempty"`
	Amount     decimal.Decimal           `json:"Amount"`
}

type creditNoteRefDTO struct {
	CreditNoteID string `json:"CreditNoteID"`
}

type accountDTO struct {
	Code string `json:"Code"`
}

func toContactDTO(contact *ledger.Contact) contactDTO {
	dto := contactDTO{
		Name:       contact.Name,
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		IsCustomer: contact.IsCustomer,
	}
	if contact.Phone != "" {
		dto.Phones = []phoneDTO{{PhoneNumber: contact.Phone}}
	}
	if contact.Address != nil {
		dto.Addresses = []addressDTO{{
			AddressType:  "STREET",
			AddressLine1: contact.Address.Line1,
			AddressLine2: contact.Address.Line2,
			City:         contact.Address.City,
			Region:       contact.Address.Region,
			PostalCode:   contact.Address.PostalCode,
			Country:      contact.Address.Country,
		}}
	}
	return dto
}

func fromContactDTO(dto contactDTO) *ledger.Contact {
	contact := &ledger.Contact{
		ID:         dto.ContactID,
		Name:       dto.Name,
		FirstName:  dto.FirstName,
		LastName:   dto.LastName,
		IsCustomer: dto.IsCustomer,
	}
	if len(dto.Phones) > 0 {
		contact.Phone = dto.Phones[0].PhoneNumber
	}
	if len(dto.Addresses) > 0 {
		addr := dto.Addresses[0]
		contact.Address = &ledger.Address{
			Line1:      addr.AddressLine1,
			Line2:      addr.AddressLine2,
			City:       addr.City,
			Region:     addr.Region,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		}
	}
	return contact
}

func toInvoiceDTO(inv *ledger.Invoice) invoiceDTO {
	dto := invoiceDTO{
		Type:          string(inv.Type),
		Contact:       &contactRefDTO{ContactID: inv.ContactID},
		LineItems:     toLineItemDTOs(inv.LineItems),
		Date:          types.FormatDate(inv.Date),
		DueDate:       types.FormatDate(inv.DueDate),
		InvoiceNumber: inv.InvoiceNumber,
		Reference:     inv.Reference,
		URL:           inv.URL,
		CurrencyCode:  inv.Currency,
		Status:        string(inv.Status),
		Total:         inv.Total,
	}
	if inv.FullyPaidOnDate != nil {
		dto.FullyPaidOnDate = types.FormatDate(*inv.FullyPaidOnDate)
	}
	return dto
}

func fromInvoiceDTO(dto invoiceDTO) *ledger.Invoice {
	inv := &ledger.Invoice{
		ID:            dto.InvoiceID,
		Type:          types.InvoiceType(dto.Type),
		LineItems:     fromLineItemDTOs(dto.LineItems),
		Date:          parseResponseDate(dto.DateString, dto.Date),
		InvoiceNumber: dto.InvoiceNumber,
		Reference:     dto.Reference,
		URL:           dto.URL,
		Currency:      dto.CurrencyCode,
		Status:        types.InvoiceStatus(dto.Status),
		Total:         dto.Total,
	}
	if dto.Contact != nil {
		inv.ContactID = dto.Contact.ContactID
	}
	return inv
}

func toCreditNoteDTO(note *ledger.CreditNote) creditNoteDTO {
	return creditNoteDTO{
		Type:             string(note.Type),
		Contact:          &contactRefDTO{ContactID: note.ContactID},
		CreditNoteNumber: note.Number,
		Reference:        note.Reference,
		Date:             types.FormatDate(note.Date),
		Status:           string(note.Status),
		LineItems:        toLineItemDTOs(note.LineItems),
		CurrencyCode:     note.Currency,
		Total:            note.Total,
	}
}

func fromCreditNoteDTO(dto creditNoteDTO) *ledger.CreditNote {
	note := &ledger.CreditNote{
		ID:        dto.CreditNoteID,
		Type:      types.CreditNoteType(dto.Type),
		Number:    dto.CreditNoteNumber,
		Reference: dto.Reference,
		Date:      parseResponseDate(dto.DateString, dto.Date),
		Status:    types.InvoiceStatus(dto.Status),
		LineItems: fromLineItemDTOs(dto.LineItems),
		Currency:  dto.CurrencyCode,
		Total:     dto.Total,
	}
	if dto.Contact != nil {
		note.ContactID = dto.Contact.ContactID
	}
	return note
}

func toLineItemDTOs(items []ledger.LineItem) []lineItemDTO {
	dtos := make([]lineItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, lineItemDTO{
			Description:  item.Description,
			Quantity:     item.Quantity,
			UnitAmount:   item.UnitAmount,
			LineAmount:   item.LineAmount,
			AccountCode:  item.AccountCode,
			TaxType:      item.TaxType,
			DiscountRate: item.DiscountRate,
		})
	}
	return dtos
}

func fromLineItemDTOs(dtos []lineItemDTO) []ledger.LineItem {
	items := make([]ledger.LineItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, ledger.LineItem{
			Description:  dto.Description,
			Quantity:     dto.Quantity,
			UnitAmount:   dto.UnitAmount,
			LineAmount:   dto.LineAmount,
			AccountCode:  dto.AccountCode,
			TaxType:      dto.TaxType,
			DiscountRate: dto.DiscountRate,
		})
	}
	return items
}

func parseResponseDate(dateString, date string) time.Time {
	if dateString != "" {
		if t, err := time.Parse(responseDateLayout, dateString); err == nil {
			return t
		}
	}
	if t, err := time.Parse(types.DateLayout, date); err == nil {
		return t
	}
	return time.Time{}
}
