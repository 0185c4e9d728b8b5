package database

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	got := Statements("CREATE TABLE a (id INT);\n\n  ; INSERT INTO a VALUES (1);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "INSERT INTO a VALUES (1)"}, got)
}

func TestEmbeddedSchema(t *testing.T) {
	stmts := Statements(schemaSQL)
	require.NotEmpty(t, stmts)
	joined := strings.Join(stmts, "\n")
	for _, table := range []string{"users", "restaurants_table", "time_slots", "reservations", "configuracion", "password_resets"} {
		assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, joined, "uq_active_booking")
}

func TestDSN(t *testing.T) {
	dsn, err := Options{User: "app", Pass: "p@ss", Host: "db", Port: "3306", Name: "restaurante"}.DSN()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "app:p@ss@tcp(db:3306)/restaurante?"), dsn)

	q, err := url.ParseQuery(dsn[strings.Index(dsn, "?")+1:])
	require.NoError(t, err)
	assert.Equal(t, "true", q.Get("parseTime"))
	assert.Equal(t, "true", q.Get("clientFoundRows"))
}

func TestDSN_MissingCA(t *testing.T) {
	_, err := Options{User: "app", Host: "db", Port: "3306", Name: "x", TLSCA: "/does/not/exist.pem"}.DSN()
	assert.Error(t, err)
}
