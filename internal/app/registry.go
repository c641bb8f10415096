package app

import (
	"peopleflow-hr/internal/employeesalary"
	"peopleflow-hr/internal/jurisdiction"
	"peopleflow-hr/internal/messaging/kafka"
	"peopleflow-hr/internal/payroll"
	"peopleflow-hr/internal/rbac"
	"peopleflow-hr/internal/rbac/infra"

	"github.com/gin-gonic/gin"
)

func registerModules(router *gin.Engine, in *connections, cfg Config) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(in.gormDB)
	jurisdictionRepo := jurisdiction.NewRepository(in.gormDB)
	employeeSalaryRepo := employeesalary.NewRepository(in.gormDB)
	payrollRepo := payroll.NewRepository(in.gormDB)
	outboxRepo := kafka.NewOutboxRepository(in.sqlDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	jurisdictionService := jurisdiction.NewService(in.sqlDB, jurisdictionRepo, in.redis, cfg.JurisdictionCacheTTL)
	employeeSalaryService := employeesalary.NewService(in.sqlDB, employeeSalaryRepo)
	payrollService := payroll.NewService(
		in.sqlDB,
		payrollRepo,
		outboxRepo,
		jurisdictionService,
		employeeSalaryService,
		cfg.PayrollRunConcurrency,
	)

	// --- Handlers ---
	jurisdictionHandler := jurisdiction.NewHandler(jurisdictionService)
	employeeSalaryHandler := employeesalary.NewHandler(employeeSalaryService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, in.redis)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		rbac.RegisterRoutes(api, rbacHandler)
		jurisdiction.RegisterRoutes(api, jurisdictionHandler, rbacService)
		employeesalary.RegisterRoutes(api, employeeSalaryHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, in.redis)
	}

	return nil
}
