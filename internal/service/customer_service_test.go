package service

import (
	"testing"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer_RejectsDuplicateDocument(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(repository.NewCustomerRepo(db))

	first := &model.Customer{
		DocumentType:   model.DocNationalID,
		DocumentNumber: "11112222",
		FirstName:      "Ana",
		LastName:       "Torres",
		Active:         true,
	}
	require.NoError(t, svc.CreateCustomer(first, "tester"))

	dup := &model.Customer{
		DocumentType:   model.DocNationalID,
		DocumentNumber: "11112222",
		FirstName:      "Another",
		LastName:       "Person",
		Active:         true,
	}
	require.ErrorIs(t, svc.CreateCustomer(dup, "tester"), ErrDuplicateDocument)
}

func TestCreateCustomer_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(repository.NewCustomerRepo(db))

	cases := []struct {
		name     string
		customer *model.Customer
	}{
		{
			name: "missing document",
			customer: &model.Customer{
				DocumentType: model.DocNationalID,
				FirstName:    "Ana",
				LastName:     "Torres",
			},
		},
		{
			name: "missing first name",
			customer: &model.Customer{
				DocumentType:   model.DocNationalID,
				DocumentNumber: "33334444",
				LastName:       "Torres",
			},
		},
		{
			name: "bad email",
			customer: &model.Customer{
				DocumentType:   model.DocNationalID,
				DocumentNumber: "33334444",
				FirstName:      "Ana",
				LastName:       "Torres",
				Email:          "not-an-email",
			},
		},
		{
			name: "unknown document type",
			customer: &model.Customer{
				DocumentType:   "PASSPORT",
				DocumentNumber: "33334444",
				FirstName:      "Ana",
				LastName:       "Torres",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var vErr *ValidationError
			require.ErrorAs(t, svc.CreateCustomer(tc.customer, "tester"), &vErr)
		})
	}
}

func TestUpdateCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(repository.NewCustomerRepo(db))

	customer := seedCustomer(t, db, "55556666")
	other := seedCustomer(t, db, "77778888")

	updated, err := svc.UpdateCustomer(customer.ID, &model.Customer{
		DocumentType:   model.DocTaxID,
		DocumentNumber: "20123456789",
		FirstName:      "Maria",
		LastName:       "Lopez de Perez",
		Phone:          "999888777",
		Active:         true,
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.DocTaxID, updated.DocumentType)
	assert.Equal(t, "Maria Lopez de Perez", updated.FullName())

	// Taking another customer's document must fail.
	_, err = svc.UpdateCustomer(customer.ID, &model.Customer{
		DocumentType:   model.DocNationalID,
		DocumentNumber: other.DocumentNumber,
		FirstName:      "Maria",
		LastName:       "Lopez",
		Active:         true,
	}, "tester")
	require.ErrorIs(t, err, ErrDuplicateDocument)

	_, err = svc.UpdateCustomer(uuid.New(), &model.Customer{
		DocumentType:   model.DocNationalID,
		DocumentNumber: "00000000",
		FirstName:      "Ghost",
		LastName:       "Customer",
	}, "tester")
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestDeleteCustomer_BlockedWhileSalesExist(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Board Games")
	product := seedProduct(t, db, category.ID, "TOY-200", "40.00", 10)
	buyer := seedCustomer(t, db, "99990000")
	walkIn := seedCustomer(t, db, "12121212")

	saleSvc := newTestSaleService(t, db, fixedClock(testNow))
	_, err := saleSvc.CreateSale(&CreateSaleInput{
		CustomerID:    &buyer.ID,
		PaymentMethod: model.PayCash,
		Items: []CreateSaleItemInput{
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("40.00")},
		},
	}, user.ID)
	require.NoError(t, err)

	svc := NewCustomerService(repository.NewCustomerRepo(db))

	require.ErrorIs(t, svc.DeleteCustomer(buyer.ID, "tester"), ErrCustomerInUse)
	require.NoError(t, svc.DeleteCustomer(walkIn.ID, "tester"))

	_, err = svc.GetCustomer(walkIn.ID)
	require.ErrorIs(t, err, ErrCustomerNotFound)

	var gone model.Customer
	require.NoError(t, db.Unscoped().First(&gone, "id = ?", walkIn.ID).Error)
	assert.Equal(t, "tester", gone.DeletedBy)
	assert.True(t, gone.DeletedAt.Valid)
}

func TestSearchCustomers(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(repository.NewCustomerRepo(db))

	match := seedCustomer(t, db, "45674567")
	inactive := seedCustomer(t, db, "45679999")
	require.NoError(t, db.Model(&model.Customer{}).Where("id = ?", inactive.ID).Update("active", false).Error)

	byDocument, err := svc.SearchCustomers("4567", 10)
	require.NoError(t, err)
	require.Len(t, byDocument, 1)
	assert.Equal(t, match.ID, byDocument[0].ID)

	byName, err := svc.SearchCustomers("Lopez", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
}
