package main

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestOptionsWatch(t *testing.T) {
	h, props := test_host(t, recording_factory)
	h.update(props)
	assert(t, host_render(t, h) == "point", "unexpected frame")

	ctx, cf := context.WithCancel(context.Background())
	defer cf()
	if err := options_watch(ctx, []*panel_host{h}); err != nil {
		t.Fatal(err)
	}

	err := os.WriteFile(h.panel.path_options, []byte(`{"shapes": [{"type": "line"}, {"type": "line"}]}`), 0o600)
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		o, err := h.options_get()
		if err != nil {
			t.Fatal(err)
		}
		if len(o.shapes) == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("options were not reloaded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOptionsWatchMissingDirectory(t *testing.T) {
	p := &config_panel{name: "x", path_options: "/nonexistent/dir/options.json"}
	h := new_panel_host(p, test_serve_config(), recording_factory)
	err := options_watch(context.Background(), []*panel_host{h})
	assert(t, err != nil, "watching a missing directory should fail")
}
