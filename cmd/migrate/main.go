package main

import (
	"log"

	"ai-crm-be/internal/config"
	"ai-crm-be/internal/model"
	"ai-crm-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		LogLevel:     cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate for contacts and contact_history...")
	if err := db.AutoMigrate(&model.Contact{}, &model.ContactHistory{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Older deployments carried a boolean flag, a manual order and a status
	// instead of the single 1..3 priority.
	log.Println("Step 3: Dropping legacy columns...")
	legacySQL := []string{
		`ALTER TABLE public.contacts DROP COLUMN IF EXISTS is_priority;`,
		`ALTER TABLE public.contacts DROP COLUMN IF EXISTS display_order;`,
		`ALTER TABLE public.contacts DROP COLUMN IF EXISTS status;`,
		`DO $$ BEGIN
		   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'contacts_priority_range') THEN
		     ALTER TABLE public.contacts ADD CONSTRAINT contacts_priority_range CHECK (priority IS NULL OR priority BETWEEN 1 AND 3);
		   END IF;
		 END $$;`,
	}
	for _, sql := range legacySQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute legacy SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed.")
}
