package app

import (
	"context"
	"fmt"
	"os"

	"peopleflow-hr/internal/jurisdiction"
	"peopleflow-hr/internal/rbac"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SeedOptions selects what RunSeed writes. Role grants are skipped unless
// CompanyID is set.
type SeedOptions struct {
	RolesPath   string
	CompanyID   string
	RoleName    string
	EmployeeIDs []string
}

type roleFile struct {
	Roles []struct {
		Name        string                `yaml:"name"`
		Permissions []rbac.PermissionSpec `yaml:"permissions"`
	} `yaml:"roles"`
}

// RunSeed migrates the schema, upserts every jurisdiction in
// cfg.JurisdictionsPath and optionally grants a role from opts.RolesPath.
func RunSeed(ctx context.Context, cfg Config, opts SeedOptions) error {
	logger := zap.L().Named("app.seed")

	file, err := jurisdiction.LoadFile(cfg.JurisdictionsPath)
	if err != nil {
		return err
	}

	in, err := connectInfra(cfg, true)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := Migrate(in.gormDB); err != nil {
		return err
	}

	jurisdictionService := jurisdiction.NewService(
		in.sqlDB,
		jurisdiction.NewRepository(in.gormDB),
		in.redis,
		cfg.JurisdictionCacheTTL,
	)
	for _, def := range file.Jurisdictions {
		if err := jurisdictionService.Upsert(ctx, def); err != nil {
			return fmt.Errorf("seed jurisdiction %s: %w", def.Code, err)
		}
		logger.Info("jurisdiction seeded", zap.String("code", def.Code))
	}

	if opts.CompanyID == "" {
		return nil
	}

	grant, err := loadGrant(opts)
	if err != nil {
		return err
	}
	// Grant only touches the database, the enforcer is not consulted.
	rbacService := rbac.NewService(rbac.NewRepository(in.gormDB), nil)
	return rbacService.Grant(ctx, grant)
}

func loadGrant(opts SeedOptions) (rbac.GrantRequest, error) {
	raw, err := os.ReadFile(opts.RolesPath)
	if err != nil {
		return rbac.GrantRequest{}, fmt.Errorf("read roles file: %w", err)
	}

	var rf roleFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return rbac.GrantRequest{}, fmt.Errorf("parse roles file: %w", err)
	}

	for _, r := range rf.Roles {
		if r.Name == opts.RoleName {
			return rbac.GrantRequest{
				CompanyID:   opts.CompanyID,
				RoleName:    r.Name,
				Permissions: r.Permissions,
				EmployeeIDs: opts.EmployeeIDs,
			}, nil
		}
	}
	return rbac.GrantRequest{}, fmt.Errorf("role %q not found in %s", opts.RoleName, opts.RolesPath)
}
