package main

import (
	"context"
	"flag"
	"strings"

	"peopleflow-hr/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	var (
		rolesPath = flag.String("roles", "config/roles.yaml", "roles file")
		companyID = flag.String("company", "", "company id to grant a role in; empty skips role seeding")
		roleName  = flag.String("role", "payroll_admin", "role from the roles file")
		employees = flag.String("employees", "", "comma separated employee ids to assign the role to")
	)
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	opts := app.SeedOptions{
		RolesPath: *rolesPath,
		CompanyID: *companyID,
		RoleName:  *roleName,
	}
	if *employees != "" {
		opts.EmployeeIDs = strings.Split(*employees, ",")
	}

	if err := app.RunSeed(context.Background(), cfg, opts); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete")
}
