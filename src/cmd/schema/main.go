// Command schema prints the DDL of the GORM models for Atlas:
//
//	atlas migrate diff --env gorm
package main

import (
	"fmt"
	"io"
	"os"

	"ariga.io/atlas-provider-gorm/gormschema"
	"github.com/gogonoten/johotel/src/models"
)

func main() {
	stmts, err := gormschema.New("postgres").Load(
		&models.User{},
		&models.Room{},
		&models.Reservation{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load gorm schema: %v\n", err)
		os.Exit(1)
	}
	io.WriteString(os.Stdout, stmts)
	io.WriteString(os.Stdout, "CREATE EXTENSION IF NOT EXISTS btree_gist;\n")
	io.WriteString(os.Stdout, models.ReservationNoOverlapDDL+";\n")
}
