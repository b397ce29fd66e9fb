package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mockOptions() *mtest.Options {
	return mtest.NewOptions().ClientType(mtest.Mock)
}

// mockStore wraps the mock client of one subtest.
func mockStore(mt *mtest.T) *Store {
	return &Store{client: mt.Client, db: mt.DB, timeout: 5 * time.Second}
}

func namespace(mt *mtest.T, collection string) string {
	return mt.DB.Name() + "." + collection
}
