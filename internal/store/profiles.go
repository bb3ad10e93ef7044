package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/valley.works/internal/catalog"
	"github.com/Simplici0/valley.works/internal/pricing"
)

// ErrProfileNotFound is returned when no profile has the requested id.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is a player's saved pricing selections.
type Profile struct {
	ID          string               `json:"id"`
	Professions []pricing.Profession `json:"professions"`
	Quality     catalog.Quality      `json:"quality"`
	Foraged     bool                 `json:"foraged"`
}

// Context converts the profile into the engine's pricing context.
func (p Profile) Context() pricing.Context {
	return pricing.Context{Professions: p.Professions, Foraged: p.Foraged}
}

type profileRow struct {
	ID          string `db:"id"`
	Professions string `db:"professions"`
	Quality     string `db:"quality"`
	Foraged     bool   `db:"foraged"`
}

func toRow(p Profile) profileRow {
	names := make([]string, len(p.Professions))
	for i, prof := range p.Professions {
		names[i] = string(prof)
	}
	q := p.Quality
	if q == "" {
		q = catalog.QualityNormal
	}
	return profileRow{ID: p.ID, Professions: strings.Join(names, ","), Quality: string(q), Foraged: p.Foraged}
}

func fromRow(r profileRow) Profile {
	p := Profile{ID: r.ID, Quality: catalog.Quality(r.Quality), Foraged: r.Foraged}
	for _, name := range strings.Split(r.Professions, ",") {
		if prof, err := pricing.ParseProfession(name); err == nil {
			p.Professions = append(p.Professions, prof)
		}
	}
	return p
}

// CreateProfile stores p under a new random id and returns it.
func (s *Store) CreateProfile(p Profile) (Profile, error) {
	p.ID = uuid.NewString()
	row := toRow(p)
	if _, err := s.db.NamedExec(`
		INSERT INTO profiles (id, professions, quality, foraged)
		VALUES (:id, :professions, :quality, :foraged)
	`, row); err != nil {
		return Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return fromRow(row), nil
}

// Profile returns the profile with the given id.
func (s *Store) Profile(id string) (Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Profile{}, ErrProfileNotFound
	}

	var row profileRow
	err := s.db.Get(&row, `SELECT id, professions, quality, foraged FROM profiles WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("query profile: %w", err)
	}
	return fromRow(row), nil
}

// UpdateProfile replaces the selections of an existing profile.
func (s *Store) UpdateProfile(p Profile) error {
	result, err := s.db.NamedExec(`
		UPDATE profiles
		SET
			professions = :professions,
			quality = :quality,
			foraged = :foraged,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, toRow(p))
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
