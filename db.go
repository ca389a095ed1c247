package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

const DB_TABLE_PREFIX = "shapemon_metric_"

func db_table(m *metric) string {
	return DB_TABLE_PREFIX + m.name
}

func db_init(db_path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", db_path)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	var db_version string
	if err := db.QueryRow("SELECT sqlite_version()").Scan(&db_version); err != nil {
		log.Println("warning: unable to get sqlite version: ", err)
	} else {
		log.Println("database version: ", db_version)
	}
	return db, nil
}

func db_migrate(db *sql.DB, metrics []*metric) error {
	template_table := `
CREATE TABLE IF NOT EXISTS %[1]s (
    id INTEGER PRIMARY KEY,
    value DOUBLE PRECISION,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP);
CREATE INDEX IF NOT EXISTS index_%[1]s
    ON %[1]s (timestamp, value);
`
	in_err := false
	for n, m := range metrics {
		log.Printf(
			"Maybe creating tables and indices for metric %d/%d: %s (%s)\n",
			n+1, len(metrics), m.name, m.description)

		_, err := db.Exec(fmt.Sprintf(template_table, db_table(m)))
		if err != nil {
			log.Printf("failed to create table for metric %s: %v ", m.name, err)
			in_err = true
		}
	}
	if in_err {
		return errors.New("database migration encountered errors")
	}
	return nil
}

func db_insert(ctx context.Context, db *sql.DB, ms *measurement) error {
	_, err := db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s (value) VALUES (?)`, db_table(ms.metric)),
		ms.value)
	return err
}

func db_prune(ctx context.Context, db *sql.DB, m *metric, retention_period time.Duration) (int64, error) {
	q := fmt.Sprintf(
		`DELETE FROM %s WHERE timestamp < DATETIME('now', '-%d seconds')`,
		db_table(m),
		int64(retention_period/time.Second))
	res, err := db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// db_writer serializes all writes to the database.
func db_writer(ctx context.Context, db *sql.DB, tasks <-chan db_task) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-tasks:
			switch task.kind {
			case DB_TASK_INSERT:
				ms := task.insert_measurement
				if err := db_insert(ctx, db, ms); err != nil {
					log.Printf(
						"metric insert failed for %s with value %f: %v\n",
						ms.metric.name, ms.value, err)
				}
			case DB_TASK_PRUNE_TABLE:
				log.Printf(
					"Pruning metric %s for older than %s entries.\n",
					task.prune_metric.name, task.prune_retention_period)
				n, err := db_prune(ctx, db, task.prune_metric, task.prune_retention_period)
				if err != nil {
					log.Println("Pruning failed: ", err)
				} else if n > 0 {
					log.Printf("Pruned %d rows of %s\n", n, task.prune_metric.name)
				}
			default:
				panic(fmt.Sprintf("This is a bug: db_task.kind == %d", task.kind))
			}
		}
	}
}

func db_pruner(ctx context.Context, tasks chan<- db_task, metrics []*metric,
	retention_period, prune_period time.Duration) {

	log.Println("Entering pruning loop with period of ", prune_period)
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(prune_period):
			for _, m := range metrics {
				select {
				case tasks <- db_task{
					kind:                   DB_TASK_PRUNE_TABLE,
					prune_metric:           m,
					prune_retention_period: retention_period,
				}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
