package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

type partyRepository struct {
	db DBTX
}

func NewPartyRepository(db DBTX) repository.PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	query := `SELECT id, kind, name, email, license_number, employer_id, legal_name, trade_name FROM parties WHERE id = $1`

	var (
		p             domain.Party
		licenseNumber sql.NullString
		employerID    sql.NullInt64
		legalName     sql.NullString
		tradeName     sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Kind, &p.Name, &p.Email, &licenseNumber, &employerID, &legalName, &tradeName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("party %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get party %d: %w", id, err)
	}

	switch p.Kind {
	case domain.PartyKindIndividual:
		p.Individual = &domain.IndividualProfile{LicenseNumber: licenseNumber.String}
		if employerID.Valid {
			eid := employerID.Int64
			p.Individual.EmployerID = &eid
		}
	case domain.PartyKindOrganization:
		p.Organization = &domain.OrganizationProfile{LegalName: legalName.String, TradeName: tradeName.String}
	default:
		return nil, fmt.Errorf("party %d has unknown kind %q", id, p.Kind)
	}
	return &p, nil
}
