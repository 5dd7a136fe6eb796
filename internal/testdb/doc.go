//go:build integration

// Package testdb provides utilities for database integration tests.
//
// Tests share one disposable PostgreSQL container per package, migrated with
// the same embedded goose migrations the server uses. Each test then runs in
// its own transaction, which is rolled back when the test completes:
//
//	func TestMain(m *testing.M) {
//	    os.Exit(testdb.SetupTestMain(context.Background(), m))
//	}
//
//	func TestMyFeature(t *testing.T) {
//	    testdb.WithTx(t, testdb.DB(t), func(t *testing.T, tx *sql.Tx) {
//	        userStore := postgres.NewPostgresUserStore(tx, nil)
//	        ...
//	    })
//	}
//
// The package is compiled only with the integration build tag and needs a
// working Docker daemon.
package testdb
