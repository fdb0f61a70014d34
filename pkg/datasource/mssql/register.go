package mssql

import (
	"github.com/querylens/querylens/pkg/datasource"
)

func init() {
	datasource.Register(datasource.DriverMSSQL, Open)
}
