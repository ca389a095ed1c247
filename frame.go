package main

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"log"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// A frame is one query result: ordered, named columns of equal length.
type frame struct {
	name   string
	fields []*frame_field
}

type frame_field struct {
	name   string
	values []any
}

// result_set is what the host hands to a panel on every refresh.
type result_set struct {
	frames []*frame
}

func (f *frame) field(name string) *frame_field {
	if f == nil {
		return nil
	}
	for _, cur := range f.fields {
		if cur.name == name {
			return cur
		}
	}
	return nil
}

func (f *frame_field) last() (any, bool) {
	if f == nil || len(f.values) == 0 {
		return nil, false
	}
	return f.values[len(f.values)-1], true
}

// frame_select returns frames[index] if it exists and otherwise falls back to
// the first frame. nil is returned only for an empty result set.
func (rs *result_set) frame_select(index *int) *frame {
	if rs == nil || len(rs.frames) == 0 {
		return nil
	}
	if index != nil && *index >= 0 && *index < len(rs.frames) {
		return rs.frames[*index]
	}
	return rs.frames[0]
}

// fingerprint summarizes the values so that hosts can tell whether the data
// changed between two refreshes.
func (rs *result_set) fingerprint() uint64 {
	h := fnv.New64a()
	if rs == nil {
		return h.Sum64()
	}
	for _, f := range rs.frames {
		fmt.Fprintf(h, "frame:%s;", f.name)
		for _, field := range f.fields {
			fmt.Fprintf(h, "field:%s=%v;", field.name, field.values)
		}
	}
	return h.Sum64()
}

func sql_value_normalize(v any) any {
	switch vv := v.(type) {
	case []byte:
		return string(vv)
	case time.Time:
		return float64(vv.Unix())
	default:
		return vv
	}
}

func frame_from_rows(name string, rows *sql.Rows) (*frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	f := &frame{name: name}
	for _, col := range cols {
		f.fields = append(f.fields, &frame_field{name: col})
	}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}
		for i, v := range vals {
			f.fields[i].values = append(f.fields[i].values, sql_value_normalize(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// db_query_frames runs each query in order and returns one frame per query.
// Any failing query fails the whole set.
func db_query_frames(ctx context.Context, db *sql.DB, queries []string) (*result_set, error) {
	rs := &result_set{}
	for n, q := range queries {
		rows, err := db.QueryContext(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("query %d failed: %w", n+1, err)
		}
		f, err := frame_from_rows(fmt.Sprintf("query_%d", n+1), rows)
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", n+1, err)
		}
		rs.frames = append(rs.frames, f)
	}
	return rs, nil
}

// cell_value_parse turns a workbook cell into an integer, a float or leaves
// it as a string.
func cell_value_parse(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// frames_from_workbook reads every sheet of a workbook as a frame. The first
// row names the fields and blank cells become nil values.
func frames_from_workbook(path string) ([]*frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook %q: %w", path, err)
	}
	defer func() {
		if err := wb.Close(); err != nil {
			log.Println("warning: error when closing workbook: ", err)
		}
	}()

	frames := []*frame{}
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		f := &frame{name: sheet}
		if len(rows) > 0 {
			for n, header := range rows[0] {
				if header == "" {
					header = fmt.Sprintf("Field %d", n+1)
				}
				f.fields = append(f.fields, &frame_field{name: header})
			}
			for _, row := range rows[1:] {
				for i, field := range f.fields {
					var v any
					if i < len(row) && row[i] != "" {
						v = cell_value_parse(row[i])
					}
					field.values = append(field.values, v)
				}
			}
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// panel_frames collects the result set of a panel: query frames first, then
// workbook sheets.
func panel_frames(ctx context.Context, db *sql.DB, p *config_panel) (*result_set, error) {
	rs := &result_set{}
	if len(p.queries) > 0 {
		if db == nil {
			return nil, fmt.Errorf("panel %s has queries but no database", p.name)
		}
		qrs, err := db_query_frames(ctx, db, p.queries)
		if err != nil {
			return nil, err
		}
		rs.frames = append(rs.frames, qrs.frames...)
	}
	if p.path_workbook != "" {
		wfs, err := frames_from_workbook(p.path_workbook)
		if err != nil {
			return nil, err
		}
		rs.frames = append(rs.frames, wfs...)
	}
	return rs, nil
}
