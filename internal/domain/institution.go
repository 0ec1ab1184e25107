package domain

import "context"

// Institution is an organisation a guest may declare on check-in.
type Institution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InstitutionRepository reads the institution directory.
type InstitutionRepository interface {
	List(ctx context.Context) ([]*Institution, error)
	GetByID(ctx context.Context, id string) (*Institution, error)
}
