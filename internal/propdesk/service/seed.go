package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	"github.com/aussiebroadwan/propdesk/pkg/cryptox"
)

// DemoDirectory is one identity per role, matching the dashboard's sample
// users.
var DemoDirectory = []NewIdentity{
	{Name: "Admin User", Email: "admin@propdesk.com", Phone: "+1 (555) 000-0001", Role: domain.RoleAdmin},
	{Name: "Sarah Johnson", Email: "sarah@propdesk.com", Phone: "+1 (555) 123-4567", Role: domain.RolePropertyManager},
	{Name: "Michael Chen", Email: "michael@propdesk.com", Phone: "+1 (555) 234-5678", Role: domain.RoleLandlord},
	{Name: "Emily Davis", Email: "emily@propdesk.com", Phone: "+1 (555) 345-6789", Role: domain.RoleTenant},
	{Name: "Bob's Plumbing", Email: "bob@plumbing.com", Phone: "+1 (555) 456-7890", Role: domain.RoleVendor},
}

// SeedDemo fills an empty directory with DemoDirectory. Each identity gets a
// generated password which is logged once. Returns the number of identities
// created.
func SeedDemo(ctx context.Context, st store.Store, logger *slog.Logger) (int, error) {
	created := 0
	err := st.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Identities().IsEmpty(ctx)
		if err != nil || !empty {
			return err
		}

		for _, n := range DemoDirectory {
			if n.Password, err = cryptox.GeneratePassword(); err != nil {
				return fmt.Errorf("generate password: %w", err)
			}
			ident, err := n.build()
			if err != nil {
				return err
			}
			if err := tx.Identities().Create(ctx, ident); err != nil {
				return fmt.Errorf("seed %s: %w", n.Email, err)
			}
			logger.Info("seeded demo identity",
				slog.String("email", ident.Email),
				slog.String("role", ident.Role.String()),
				slog.String("password", n.Password),
			)
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
