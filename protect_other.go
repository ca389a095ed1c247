//go:build !openbsd

package main

func protect_serve(path_db string, panels []*config_panel) error {
	return nil
}

func protect_measure() error {
	return nil
}
