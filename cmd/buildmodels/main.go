package main

import (
	"flag"
	"log"
	"os"

	"axiapac.com/attendance/model"
	"gorm.io/driver/mysql"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// Generates typed query helpers for the directory tables.
func main() {
	out := flag.String("out", "./query", "output directory")
	flag.Parse()

	g := gen.NewGenerator(gen.Config{
		OutPath: *out,
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		log.Fatal("MYSQL_DSN is required")
	}
	db, err := gorm.Open(mysql.Open(dsn))
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	g.UseDB(db)

	g.ApplyBasic(model.UserAccount{}, model.AttendanceRecord{}, model.Credential{})
	g.Execute()
}
