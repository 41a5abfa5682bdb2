package domain

type PartyKind string

const (
	PartyKindIndividual   PartyKind = "INDIVIDUAL"
	PartyKindOrganization PartyKind = "ORGANIZATION"
)

// Party is a client record from the party directory. Exactly one of Individual or
// Organization is set, matching Kind.
type Party struct {
	ID    int64     `json:"id" yaml:"id"`
	Kind  PartyKind `json:"kind" yaml:"kind"`
	Name  string    `json:"name" yaml:"name"`
	Email string    `json:"email" yaml:"email"`

	Individual   *IndividualProfile   `json:"individual,omitempty" yaml:"individual,omitempty"`
	Organization *OrganizationProfile `json:"organization,omitempty" yaml:"organization,omitempty"`
}

type IndividualProfile struct {
	LicenseNumber string `json:"license_number" yaml:"license_number"`
	// Organization the individual currently drives for, if any.
	EmployerID *int64 `json:"employer_id,omitempty" yaml:"employer_id,omitempty"`
}

type OrganizationProfile struct {
	LegalName string `json:"legal_name" yaml:"legal_name"`
	TradeName string `json:"trade_name,omitempty" yaml:"trade_name,omitempty"`
}

// IsAffiliatedWith reports whether p may drive vehicles rented by organization orgID.
func (p *Party) IsAffiliatedWith(orgID int64) bool {
	switch p.Kind {
	case PartyKindIndividual:
		return p.Individual != nil && p.Individual.EmployerID != nil && *p.Individual.EmployerID == orgID
	default:
		return false
	}
}
