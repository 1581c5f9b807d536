package domain

import "context"

//go:generate mockgen -source=override_repository.go -destination=override_repository_mock.go -package=domain

type OverrideRepository interface {
	GetOverride(ctx context.Context, entityID string) (*EntityWindowSpec, error)
	ListOverrides(ctx context.Context) ([]EntityWindowSpec, error)
	SaveOverride(ctx context.Context, spec EntityWindowSpec) error
	DeleteOverride(ctx context.Context, entityID string) error
}
