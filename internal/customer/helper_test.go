package customer_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"
)

const testSchema = `
CREATE TABLE customer (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  is_admin BOOLEAN NOT NULL DEFAULT false,
  created TEXT NOT NULL
);
CREATE TABLE subscription (
  id TEXT PRIMARY KEY,
  customer TEXT NOT NULL REFERENCES customer(id) ON DELETE CASCADE,
  endpoint TEXT NOT NULL UNIQUE,
  p256dh TEXT NOT NULL,
  auth TEXT NOT NULL,
  created TEXT NOT NULL
);
CREATE TABLE notification (
  id TEXT PRIMARY KEY,
  customer TEXT NOT NULL REFERENCES customer(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  body TEXT NOT NULL,
  link TEXT NOT NULL DEFAULT '',
  is_read BOOLEAN NOT NULL DEFAULT false,
  created TEXT NOT NULL
);
`

func testDB(t *testing.T) db.Session {
	t.Helper()

	sess, err := sqlite.Open(sqlite.ConnectionURL{
		Database: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })

	_, err = sess.SQL().Exec(testSchema)
	require.NoError(t, err)

	return sess
}
