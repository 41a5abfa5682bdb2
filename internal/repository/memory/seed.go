package memory

import (
	"fmt"
	"os"

	"vehicle-rental-backend/internal/domain"

	"gopkg.in/yaml.v3"
)

// Seed is the fixture file format for the memory store.
type Seed struct {
	Vehicles []domain.Vehicle `yaml:"vehicles"`
	Parties  []domain.Party   `yaml:"parties"`
}

// LoadSeed reads a seed file and loads it into s.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	return s.Apply(seed)
}

// Apply validates and loads seed records into s.
func (s *Store) Apply(seed Seed) error {
	for _, v := range seed.Vehicles {
		if !v.Kind.Valid() {
			return fmt.Errorf("vehicle %d: unknown kind %q", v.ID, v.Kind)
		}
		if v.Status == "" {
			v.Status = domain.VehicleStatusAvailable
		}
		if !v.Status.Valid() {
			return fmt.Errorf("vehicle %d: unknown status %q", v.ID, v.Status)
		}
		if v.DailyRateCents < 0 {
			return fmt.Errorf("vehicle %d: negative daily rate", v.ID)
		}
		s.AddVehicle(v)
	}
	for _, p := range seed.Parties {
		switch p.Kind {
		case domain.PartyKindIndividual:
			if p.Individual == nil {
				p.Individual = &domain.IndividualProfile{}
			}
			p.Organization = nil
		case domain.PartyKindOrganization:
			if p.Organization == nil {
				p.Organization = &domain.OrganizationProfile{LegalName: p.Name}
			}
			p.Individual = nil
		default:
			return fmt.Errorf("party %d: unknown kind %q", p.ID, p.Kind)
		}
		s.AddParty(p)
	}
	return nil
}
