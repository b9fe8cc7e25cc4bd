package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	my := Options{Driver: "mysql", User: "app", Pass: "pw", Host: "db", Port: "3306", Name: "market"}
	assert.Equal(t, "app:pw@tcp(db:3306)/market?charset=utf8mb4&parseTime=true&loc=UTC", my.DSN())

	my.Pass = ""
	assert.Equal(t, "app@tcp(db:3306)/market?charset=utf8mb4&parseTime=true&loc=UTC", my.DSN())

	pg := Options{User: "app", Pass: "pw", Host: "db", Port: "5432", Name: "market"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=market sslmode=disable TimeZone=UTC", pg.DSN())
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open(Options{Driver: "sqlite"}, nil)
	assert.ErrorContains(t, err, "unsupported db driver")
}

func TestPingFailureClosesPool(t *testing.T) {
	sqlDB, err := sql.Open("mysql", "app@tcp(127.0.0.1:1)/market")
	require.NoError(t, err)

	err = ping(sqlDB, time.Second)
	assert.ErrorContains(t, err, "ping db")
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}

func TestOpenUnreachable(t *testing.T) {
	_, err := Open(Options{Host: "127.0.0.1", Port: "1", User: "app", Name: "market"}, nil)
	assert.ErrorContains(t, err, "ping db")
}
