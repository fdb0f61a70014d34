package postgres

import (
	"github.com/querylens/querylens/pkg/datasource"
)

func init() {
	datasource.Register(datasource.DriverPostgres, Open)
}
