/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"log"

	"github.com/paradeops/leave-gin/internal/api"
	"github.com/paradeops/leave-gin/internal/config"
	"github.com/paradeops/leave-gin/internal/database"
	"github.com/paradeops/leave-gin/internal/model"
	"github.com/paradeops/leave-gin/internal/repository"
	"github.com/paradeops/leave-gin/internal/service"
	"github.com/paradeops/leave-gin/internal/workflow"
	"github.com/spf13/cobra"
)

// defaultLeaveTypes 初始假期类型
var defaultLeaveTypes = []model.LeaveTypeModel{
	{TypeName: "annual", MaxDays: 30},
	{TypeName: "casual", MaxDays: 10},
	{TypeName: "sick", MaxDays: 14},
	{TypeName: "compassionate", MaxDays: 7},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed initial data",
	Long: `Seed the database with initial data:
- Default leave types (annual, casual, sick, compassionate)
- An adjutant account for first login, created with the given
  service number and password

Seeding is idempotent: existing leave types and users are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer func() {
			sqlDB, _ := db.DB()
			if sqlDB != nil {
				sqlDB.Close()
			}
		}()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		// 假期类型
		typeRepo := repository.NewLeaveTypeRepository(db)
		existing, err := typeRepo.FindAll()
		if err != nil {
			return fmt.Errorf("failed to list leave types: %w", err)
		}
		known := make(map[string]bool, len(existing))
		for _, t := range existing {
			known[t.TypeName] = true
		}
		for i := range defaultLeaveTypes {
			lt := defaultLeaveTypes[i]
			if known[lt.TypeName] {
				continue
			}
			if err := typeRepo.Save(&lt); err != nil {
				return fmt.Errorf("failed to create leave type %s: %w", lt.TypeName, err)
			}
			log.Printf("Created leave type %s (max %d days)", lt.TypeName, lt.MaxDays)
		}

		// 管理账户
		serviceNumber, _ := cmd.Flags().GetString("service-number")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		unit, _ := cmd.Flags().GetString("unit")

		userRepo := repository.NewUserRepository(db)
		auditRepo := repository.NewAuditLogRepository(db)
		userSvc := service.NewUserService(userRepo, service.NewAuditLogService(auditRepo), api.GetLogger())

		if _, err := userRepo.FindByServiceNumber(serviceNumber); err == nil {
			log.Printf("User %s already exists, skipping", serviceNumber)
			return nil
		}

		admin := &model.UserModel{
			ServiceNumber: serviceNumber,
			Name:          name,
			Rank:          "Capt",
			Role:          string(workflow.RoleAdjutant),
			Unit:          unit,
		}
		if err := userSvc.Register(admin, password); err != nil {
			return fmt.Errorf("failed to create adjutant account: %w", err)
		}

		log.Printf("Created adjutant account %s", serviceNumber)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
	seedCmd.Flags().String("service-number", "ADJ-0001", "Service number for the seeded adjutant account")
	seedCmd.Flags().String("password", "changeme", "Password for the seeded adjutant account")
	seedCmd.Flags().String("name", "Duty Adjutant", "Display name for the seeded adjutant account")
	seedCmd.Flags().String("unit", "HQ Coy", "Unit for the seeded adjutant account")
}
