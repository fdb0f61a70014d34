package sqlite

import (
	"github.com/querylens/querylens/pkg/datasource"
)

func init() {
	datasource.Register(datasource.DriverSQLite, Open)
}
