package main

import (
	"log"
	"os"
	"time"

	"github.com/danuarta/portfolio/internal/config"
	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/security"
	"github.com/danuarta/portfolio/internal/server"
	"github.com/danuarta/portfolio/internal/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.ValidateJWTSecret(); err != nil {
		log.Fatal("❌ JWT Configuration Error: ", err)
	}
	log.Println("✅ JWT secret validated")

	requiredEnvVars := map[string]string{
		"DB_HOST":     os.Getenv("DB_HOST"),
		"DB_NAME":     os.Getenv("DB_NAME"),
		"DB_USER":     os.Getenv("DB_USER"),
		"DB_PASSWORD": os.Getenv("DB_PASSWORD"),
	}

	for key, value := range requiredEnvVars {
		if value == "" {
			log.Fatalf("❌ Required environment variable %s is not set", key)
		}
	}
	log.Println("✅ Required environment variables validated")

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}
	database.DB = db

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}
	log.Println("✅ Database migrated successfully")

	// ========== STORAGE SETUP ==========
	if err := utils.InitLocalStorage(); err != nil {
		log.Fatal("❌ Failed to initialize local storage:", err)
	}
	log.Println("✅ Local storage initialized at ./uploads/")

	useS3 := os.Getenv("USE_S3")
	if useS3 == "true" {
		s3Bucket := os.Getenv("S3_BUCKET")
		s3Region := os.Getenv("S3_REGION")
		cloudfrontURL := os.Getenv("CLOUDFRONT_URL")

		if s3Bucket != "" && s3Region != "" {
			if err := utils.InitS3(s3Bucket, s3Region, cloudfrontURL); err != nil {
				log.Println("⚠️  S3 initialization failed:", err)
				log.Println("⚠️  Falling back to local storage")
				utils.SetStorageMode(true)
			} else {
				log.Println("✅ S3 initialized successfully")
				log.Printf("☁️  Using S3: %s (region: %s)", s3Bucket, s3Region)
			}
		} else {
			log.Println("⚠️  USE_S3=true but S3_BUCKET or S3_REGION not configured")
			log.Println("⚠️  Falling back to local storage")
		}
	} else {
		log.Println("💾 Using LOCAL storage mode (./uploads/)")
		utils.SetStorageMode(true)
	}

	// ========== SEED ADMIN USER ==========
	if err := seedAdminUser(); err != nil {
		log.Println("⚠️  Failed to seed admin user (may already exist):", err)
	}

	// ========== START SERVER ==========
	app := server.New(db, cfg, nil)

	// Background maintenance: the security services expose cleanup methods
	// but do not self-schedule; this ticker is the external trigger.
	go func() {
		auditSvc := security.NewAuditService(db)
		lockoutSvc := security.NewLockoutService(db, cfg.Security, auditSvc)
		resetSvc := security.NewPasswordResetService(db, cfg.Security, auditSvc, nil, cfg.SiteURL)

		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		lastAuditSweep := time.Now()

		for range ticker.C {
			if n := lockoutSvc.CleanupExpiredLockouts(); n > 0 {
				log.Printf("🧹 Cleaned up %d expired lockouts", n)
			}
			if n := resetSvc.CleanupExpiredTokens(); n > 0 {
				log.Printf("🧹 Cleaned up %d expired reset tokens", n)
			}

			result := database.DB.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
			if result.RowsAffected > 0 {
				log.Printf("🧹 Cleaned up %d expired refresh tokens", result.RowsAffected)
			}

			if time.Since(lastAuditSweep) >= 24*time.Hour {
				if n := auditSvc.CleanupOldLogs(cfg.Security.AuditRetentionDays); n > 0 {
					log.Printf("🧹 Cleaned up %d old audit logs", n)
				}
				lastAuditSweep = time.Now()
			}
		}
	}()

	log.Printf("🚀 Portfolio server starting on %s", cfg.ServerAddr)
	log.Printf("💾 Storage Mode: %s", utils.GetStorageMode())
	log.Printf("🔐 JWT Authentication: Enabled")
	log.Printf("🛡️  Account Lockout: %d attempts / %s", cfg.Security.MaxAttempts, cfg.Security.LockoutDuration)

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}

func seedAdminUser() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("💡 ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	email = security.NormalizeEmail(email)

	var existing models.User
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Admin",
		Email:    email,
		Password: hash,
		Role:     "admin",
		Status:   "active",
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user seeded: %s", email)
	return nil
}
