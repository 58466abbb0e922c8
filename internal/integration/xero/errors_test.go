package xero

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
)

func TestMapAPIErrorUniquenessViolation(t *testing.T) {
	body := []byte(`{
		"ErrorNumber": 10,
		"Type": "ValidationException",
		"Message": "A validation exception occurred",
		"Elements": [
			{"ValidationErrors": [{"Message": "The contact name Acme GmbH is already assigned to another contact. The contact name must be unique across all active contacts."}]}
		]
	}`)

	err := mapAPIError(400, body)
	assert.True(t, ierr.IsSinkConflict(err))
	assert.False(t, ierr.IsSinkUnavailable(err))
}

func TestMapAPIErrorInvoiceNumberConflict(t *testing.T) {
	body := []byte(`{
		"ErrorNumber": 10,
		"Type": "ValidationException",
		"Message": "A validation exception occurred",
		"Elements": [
			{"ValidationErrors": [{"Message": "Invoice # must be unique."}]}
		]
	}`)

	err := mapAPIError(400, body)
	assert.True(t, ierr.IsSinkConflict(err))
}

func TestMapAPIErrorOtherValidation(t *testing.T) {
	body := []byte(`{
		"ErrorNumber": 10,
		"Type": "ValidationException",
		"Message": "A validation exception occurred",
		"Elements": [
			{"ValidationErrors": [{"Message": "Account code '999' is not valid"}]}
		]
	}`)

	err := mapAPIError(400, body)
	assert.False(t, ierr.IsSinkConflict(err))
	assert.True(t, ierr.IsSinkUnavailable(err))
}

func TestMapAPIErrorUnparseableBody(t *testing.T) {
	err := mapAPIError(503, []byte("<html>Service Unavailable</html>"))
	assert.True(t, ierr.IsSinkUnavailable(err))
	assert.False(t, ierr.IsSinkConflict(err))
}
