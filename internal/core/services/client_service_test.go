package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientService() (*ClientService, *mockClientRepo, *mockLoanRepo) {
	clientRepo := newMockClientRepo()
	loanRepo := newMockLoanRepo()
	return NewClientService(clientRepo, loanRepo), clientRepo, loanRepo
}

func TestCreateClient(t *testing.T) {
	svc, repo, _ := newClientService()

	client, err := svc.Create(context.Background(), &CreateClientInput{
		Name:  "Maria Lopez",
		DPI:   "2547890120101",
		Phone: "5555-1234",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "Maria Lopez", client.Name)
	assert.Contains(t, repo.clients, client.ID)
}

func TestCreateClientRequiresName(t *testing.T) {
	svc, _, _ := newClientService()

	_, err := svc.Create(context.Background(), &CreateClientInput{DPI: "123"})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUpdateClientPartialFields(t *testing.T) {
	svc, _, _ := newClientService()

	client, err := svc.Create(context.Background(), &CreateClientInput{Name: "Maria Lopez", Phone: "5555-1234"})
	require.NoError(t, err)

	newPhone := "5555-9999"
	updated, err := svc.Update(context.Background(), client.ID, &UpdateClientInput{Phone: &newPhone})
	require.NoError(t, err)

	assert.Equal(t, "Maria Lopez", updated.Name)
	assert.Equal(t, "5555-9999", updated.Phone)
}

func TestUpdateClientRejectsEmptyName(t *testing.T) {
	svc, _, _ := newClientService()

	client, err := svc.Create(context.Background(), &CreateClientInput{Name: "Maria Lopez"})
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(context.Background(), client.ID, &UpdateClientInput{Name: &empty})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestDeleteClientWithLoansRefused(t *testing.T) {
	svc, _, loanRepo := newClientService()

	client, err := svc.Create(context.Background(), &CreateClientInput{Name: "Maria Lopez"})
	require.NoError(t, err)

	loan := testLoanRow()
	loan.ClientID = client.ID
	loanRepo.loans[loan.ID] = loan

	err = svc.Delete(context.Background(), client.ID)
	assert.ErrorIs(t, err, ErrClientHasLoans)
}

func TestDeleteClientWithoutLoans(t *testing.T) {
	svc, repo, _ := newClientService()

	client, err := svc.Create(context.Background(), &CreateClientInput{Name: "Maria Lopez"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), client.ID))
	assert.NotContains(t, repo.clients, client.ID)
}

func TestGetClientNotFound(t *testing.T) {
	svc, _, _ := newClientService()

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrClientNotFound)
}
