package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
)

func measure(path_config string) error {
	config, err := config_load_file(path_config)
	if err != nil {
		return err
	}

	mconfig, err := config.parse_measure()
	if err != nil {
		return err
	}

	metrics, err := config.parse_metrics()
	if err != nil {
		return fmt.Errorf("config file reading failed, cannot proceed with measure: %w", err)
	}
	if len(metrics) == 0 {
		log.Println("warning: no metrics defined, only pruning will happen")
	}

	if err := protect_measure(); err != nil {
		return fmt.Errorf("cannot protect measure: %w", err)
	}

	path_db := fmt.Sprintf("%s?_pragma=journal_mode(WAL)", mconfig.path_db)
	log.Println("Opening SQLite DB at ", path_db)
	db, err := db_init(path_db)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Println("warning: error when closing database: ", err)
		}
	}()

	if err := db_migrate(db, metrics); err != nil {
		return fmt.Errorf("cannot proceed with measure: %w", err)
	}

	log.Println("database retention period is ", mconfig.retention_time)

	ctx, cf := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cf()
	go func() {
		<-ctx.Done()
		log.Println("got SIGINT -- bailing")
	}()

	ct := make(chan db_task)
	go db_writer(ctx, db, ct)
	go db_pruner(ctx, ct, metrics, mconfig.retention_time, mconfig.prune_db_period)
	run_metrics(ctx, mconfig.measure_period, mconfig.shell, metrics, ct)
	return nil
}
