// Package sqlkv implements store.KVStore on top of database/sql.
//
// Every value lives in a single kv_items table. SQLite, PostgreSQL and MySQL
// are supported; each dialect brings its own placeholders, upsert statement
// and driver error mapping. The schema is managed by embedded goose
// migrations that Open applies before returning.
//
// Usage:
//
//	kv, err := sqlkv.Open(ctx, "sqlite", "taskpad.db", logger)
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
package sqlkv
