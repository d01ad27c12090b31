package db

import (
	"log"

	"github.com/anhtu-vn/gochat/internal/chat"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the database once at startup and migrates the chat schema.
// The handle is shared by every component for the process lifetime.
func Connect(driver, dsn string) *gorm.DB {
	var dial gorm.Dialector
	switch driver {
	case "sqlite":
		dial = sqlite.Open(dsn)
	default:
		dial = mysql.Open(dsn)
	}

	gdb, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gdb.AutoMigrate(&chat.Session{}, &chat.Message{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}
