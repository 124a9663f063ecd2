package storage

import _ "embed"

var (
	//go:embed schema/mysql.sql
	mysqlSchema string

	//go:embed schema/postgres.sql
	postgresSchema string
)
