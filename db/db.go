package db

import (
	"database/sql"
	"os"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func InitDB(connStr string) error {
	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	return DB.Ping()
}

func GetDB() *sql.DB {
	return DB
}

// ApplySchema runs the DDL file against the database. The statements are
// written with IF NOT EXISTS so this is safe to run on every boot.
func ApplySchema(path string) error {
	sqlBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	_, err = DB.Exec(string(sqlBytes))
	return err
}
