package config

import (
	"log"
	"os"

	"canteen-pos/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// jwtSecret signs admin session tokens. Resolved lazily so a value
// supplied through .env is seen: package init runs before main gets a
// chance to call godotenv.Load.
var jwtSecret []byte

func JWTSecret() []byte {
	if jwtSecret == nil {
		jwtSecret = []byte(getEnv("JWT_SECRET", "canteen_pos_till_secret"))
	}
	return jwtSecret
}

// session is the settings cache for the current till session. It is
// refreshed only when the admin settings surface writes; the register
// serves a single cashier so there is no concurrent mutation.
var session models.SessionSettings

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DBPath returns the store file location, overridable via CANTEEN_DB.
func DBPath() string {
	return getEnv("CANTEEN_DB", "canteen.db")
}

func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(DBPath()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate store:", err)
	}

	if err := ReloadSettings(); err != nil {
		log.Fatal("Failed to load settings:", err)
	}

	log.Println("Store ready at", DBPath())
}

// Migrate creates the three tables and seeds defaults. It is shared with
// tests that run against a throwaway store file.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.MenuItem{},
		&models.OrderRecord{},
		&models.Setting{},
	); err != nil {
		return err
	}
	return seed(db)
}

// seed inserts the default settings (only where missing) and a starter menu
// when the catalog is empty.
func seed(db *gorm.DB) error {
	for name, value := range models.DefaultSettings {
		row := models.Setting{Name: name, Value: value}
		if err := db.Where(models.Setting{Name: name}).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	starter := []models.MenuItem{
		{Name: "Tea", Category: "Drinks", Price: 10.0, Available: true, StockQuantity: models.StockUnlimited},
		{Name: "Coffee", Category: "Drinks", Price: 15.0, Available: true, StockQuantity: models.StockUnlimited},
		{Name: "Sandwich", Category: "Snacks", Price: 30.0, Available: true, StockQuantity: models.StockUnlimited},
		{Name: "Biscuit", Category: "Snacks", Price: 5.0, Available: true, StockQuantity: models.StockUnlimited},
	}
	return db.Create(&starter).Error
}

// Settings returns the cached session settings value.
func Settings() models.SessionSettings {
	return session
}

// ReloadSettings re-reads the settings table into the session cache. Called
// at startup and after the admin settings surface writes.
func ReloadSettings() error {
	var rows []models.Setting
	if err := DB.Find(&rows).Error; err != nil {
		return err
	}
	session = models.ParseSessionSettings(rows)
	return nil
}
