package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/vestira/account-service/internal/domain/entity"
	"github.com/vestira/account-service/internal/domain/repository"
)

// demoAccounts are the development fixtures, one per organization type.
// They go through the same Signup path as real users and are then marked
// verified through the store's normal update operation; login has no
// special-case branch for them.
var demoAccounts = []SignupInput{
	{
		Email:            "demo.allocator@vestira.dev",
		Password:         "DemoPass123!",
		FirstName:        "Ava",
		LastName:         "Allocator",
		OrganizationType: entity.OrgAllocator,
		OrganizationName: "Meridian Pension Partners",
		JobTitle:         "Portfolio Analyst",
	},
	{
		Email:            "demo.manager@vestira.dev",
		Password:         "DemoPass123!",
		FirstName:        "Marcus",
		LastName:         "Manager",
		OrganizationType: entity.OrgManager,
		OrganizationName: "Crestline Capital",
		JobTitle:         "Managing Director",
	},
	{
		Email:            "demo.consultant@vestira.dev",
		Password:         "DemoPass123!",
		FirstName:        "Cora",
		LastName:         "Consultant",
		OrganizationType: entity.OrgConsultant,
		OrganizationName: "Halberd Advisory",
		JobTitle:         "Senior Consultant",
	},
	{
		Email:            "demo.industry@vestira.dev",
		Password:         "DemoPass123!",
		FirstName:        "Ian",
		LastName:         "Industry",
		OrganizationType: entity.OrgIndustryGroup,
		OrganizationName: "Global Allocators Forum",
		JobTitle:         "Program Director",
	},
}

// SeedDemoAccounts registers the demo fixtures. Safe to call on every
// start: a duplicate-email result means the account already exists and is
// skipped.
func (s *Service) SeedDemoAccounts(ctx context.Context, logger *logrus.Logger) {
	for _, in := range demoAccounts {
		u, err := s.Signup(ctx, in)
		if err != nil {
			if !errors.Is(err, ErrDuplicateEmail) {
				logger.WithError(err).WithField("email", in.Email).Warn("failed to seed demo account")
			}
			continue
		}
		verified := true
		if _, err := s.Repo.UpdateUser(u.ID, repository.UserPatch{EmailVerified: &verified}); err != nil {
			logger.WithError(err).WithField("email", in.Email).Warn("failed to verify demo account")
			continue
		}
		logger.WithFields(logrus.Fields{"email": u.Email, "org_type": u.OrganizationType}).Info("seeded demo account")
	}
}
