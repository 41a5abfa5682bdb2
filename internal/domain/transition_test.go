package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_Check(t *testing.T) {
	tests := []struct {
		op      Operation
		current ReservationStatus
		allowed bool
		target  ReservationStatus
	}{
		{OperationConfirm, ReservationStatusPending, true, ReservationStatusConfirmed},
		{OperationConfirm, ReservationStatusConfirmed, false, ""},
		{OperationPickup, ReservationStatusConfirmed, true, ReservationStatusInProgress},
		{OperationPickup, ReservationStatusPending, false, ""},
		{OperationFinalize, ReservationStatusInProgress, true, ReservationStatusFinalized},
		{OperationFinalize, ReservationStatusConfirmed, false, ""},
		{OperationCancel, ReservationStatusPending, true, ReservationStatusCancelled},
		{OperationCancel, ReservationStatusConfirmed, true, ReservationStatusCancelled},
		{OperationCancel, ReservationStatusInProgress, false, ""},
		{OperationCancel, ReservationStatusFinalized, false, ""},
		{OperationCancel, ReservationStatusCancelled, false, ""},
		{OperationModify, ReservationStatusPending, true, ReservationStatusPending},
		{OperationModify, ReservationStatusConfirmed, false, ""},
		{OperationModify, ReservationStatusFinalized, false, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.op)+"/"+string(tt.current), func(t *testing.T) {
			tr, ok := TransitionFor(tt.op)
			require.True(t, ok)

			err := tr.Check(&Reservation{Status: tt.current})
			if !tt.allowed {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTransition))
				assert.Contains(t, err.Error(), string(tt.current))

				var te *InvalidTransitionError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, tt.current, te.Current)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, tr.Target(tt.current))
		})
	}
}

func TestTransition_Authorize(t *testing.T) {
	owned := &Reservation{ClientID: 7}
	client := Actor{PartyID: 7, Role: RoleClient}
	otherClient := Actor{PartyID: 8, Role: RoleClient}
	staff := Actor{PartyID: 100, Role: RoleStaff}
	admin := Actor{PartyID: 101, Role: RoleAdmin}

	confirm, _ := TransitionFor(OperationConfirm)
	assert.NoError(t, confirm.Authorize(staff, owned))
	assert.NoError(t, confirm.Authorize(admin, owned))
	assert.ErrorIs(t, confirm.Authorize(client, owned), ErrForbidden)

	cancel, _ := TransitionFor(OperationCancel)
	assert.NoError(t, cancel.Authorize(client, owned))
	assert.ErrorIs(t, cancel.Authorize(otherClient, owned), ErrForbidden)
	assert.ErrorIs(t, cancel.Authorize(staff, owned), ErrForbidden)

	create, _ := TransitionFor(OperationCreate)
	assert.NoError(t, create.Authorize(client, nil))
	assert.ErrorIs(t, create.Authorize(staff, nil), ErrForbidden)
}

func TestParseReservationStatus(t *testing.T) {
	s, err := ParseReservationStatus(" in_progress ")
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusInProgress, s)

	_, err = ParseReservationStatus("overdue")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParty_IsAffiliatedWith(t *testing.T) {
	orgID := int64(10)
	driver := &Party{ID: 2, Kind: PartyKindIndividual, Individual: &IndividualProfile{EmployerID: &orgID}}
	freelancer := &Party{ID: 3, Kind: PartyKindIndividual, Individual: &IndividualProfile{}}
	org := &Party{ID: 11, Kind: PartyKindOrganization, Organization: &OrganizationProfile{LegalName: "Acme"}}

	assert.True(t, driver.IsAffiliatedWith(orgID))
	assert.False(t, driver.IsAffiliatedWith(99))
	assert.False(t, freelancer.IsAffiliatedWith(orgID))
	assert.False(t, org.IsAffiliatedWith(orgID))
}

func TestReservation_Apply(t *testing.T) {
	r := &Reservation{PersonalInsurance: true}
	off := false
	on := true
	r.Apply(ReservationChanges{PersonalInsurance: &off, ThirdPartyInsurance: &on})
	assert.False(t, r.PersonalInsurance)
	assert.True(t, r.ThirdPartyInsurance)
	assert.True(t, ReservationChanges{}.IsEmpty())
}
