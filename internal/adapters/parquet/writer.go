// Package parquet writes tables as Hive partitioned parquet datasets.
package parquet

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go-source/writerfile"
	pq "github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/okian/songplays/internal/adapters/objectstore"
	"github.com/okian/songplays/pkg/logger"
)

const (
	// SuccessMarker is written last; readers treat a directory without it as incomplete.
	SuccessMarker = "_SUCCESS"
	// DefaultPartition names the directory of rows with an empty partition value.
	DefaultPartition = "__HIVE_DEFAULT_PARTITION__"
)

// Table describes an output table of rows of type T.
type Table[T any] struct {
	Name string
	// PartitionBy lists the partition columns, outermost first.
	PartitionBy []string
	// Partition returns the row's values for PartitionBy, in the same order.
	Partition func(T) []string
}

// Result describes a completed table write.
type Result struct {
	Table string
	Files []string
	Rows  int
}

type group[T any] struct {
	dir  string
	rows []T
}

// WriteTable replaces prefix/<table name>/ with rows encoded as snappy
// parquet, one directory per partition (col=value/...), then writes the
// _SUCCESS marker. An empty table produces only the marker.
func WriteTable[T any](ctx context.Context, b objectstore.Bucket, prefix string, table Table[T], rows []T, opts ...Option) (Result, error) {
	c := &Config{
		parallelism:  defaultParallelism,
		rowGroupSize: defaultRowGroupSize,
		maxFileRows:  defaultMaxFileRows,
		logger:       logger.Get().Named("parquet"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.jobID == "" {
		c.jobID = uuid.NewString()
	}

	if table.Name == "" {
		return Result{}, fmt.Errorf("%w: empty name", ErrInvalidTable)
	}
	if len(table.PartitionBy) > 0 && table.Partition == nil {
		return Result{}, fmt.Errorf("%w: %s: partition columns without partition func", ErrInvalidTable, table.Name)
	}

	root := path.Join(prefix, table.Name) + "/"
	removed, err := objectstore.RemoveAll(ctx, b, root)
	if err != nil {
		return Result{}, fmt.Errorf("%w: clear %s: %w", ErrWrite, root, err)
	}
	if removed > 0 {
		c.logger.Debug(ctx, "previous output removed",
			logger.String("table", table.Name),
			logger.Int("objects", removed))
	}

	groups, err := partition(table, rows)
	if err != nil {
		return Result{}, err
	}

	res := Result{Table: table.Name}
	part := 0
	for _, g := range groups {
		for start := 0; start < len(g.rows); start += c.maxFileRows {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			end := min(start+c.maxFileRows, len(g.rows))

			body, err := encode(g.rows[start:end], c)
			if err != nil {
				return res, fmt.Errorf("%w: %s: %w", ErrEncode, table.Name, err)
			}
			key := root + g.dir + fmt.Sprintf("part-%05d-%s.snappy.parquet", part, c.jobID)
			if err := b.Put(ctx, key, body); err != nil {
				return res, fmt.Errorf("%w: %s: %w", ErrWrite, key, err)
			}
			part++
			res.Files = append(res.Files, key)
			res.Rows += end - start
		}
	}

	if err := b.Put(ctx, root+SuccessMarker, nil); err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrWrite, root+SuccessMarker, err)
	}

	c.logger.Info(ctx, "table written",
		logger.String("table", table.Name),
		logger.Int("rows", res.Rows),
		logger.Int("files", len(res.Files)))
	return res, nil
}

// partition groups rows by their partition directory, sorted by directory.
// Row order within a group follows the input.
func partition[T any](table Table[T], rows []T) ([]group[T], error) {
	if len(table.PartitionBy) == 0 {
		if len(rows) == 0 {
			return nil, nil
		}
		return []group[T]{{rows: rows}}, nil
	}

	byDir := make(map[string]*group[T])
	for _, row := range rows {
		values := table.Partition(row)
		if len(values) != len(table.PartitionBy) {
			return nil, fmt.Errorf("%w: %s: got %d partition values for %d columns",
				ErrInvalidTable, table.Name, len(values), len(table.PartitionBy))
		}
		dir := partitionDir(table.PartitionBy, values)
		g, ok := byDir[dir]
		if !ok {
			g = &group[T]{dir: dir}
			byDir[dir] = g
		}
		g.rows = append(g.rows, row)
	}

	out := make([]group[T], 0, len(byDir))
	for _, g := range byDir {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].dir < out[j].dir })
	return out, nil
}

func partitionDir(cols, values []string) string {
	var sb strings.Builder
	for i, col := range cols {
		v := values[i]
		if v == "" {
			v = DefaultPartition
		}
		sb.WriteString(col)
		sb.WriteByte('=')
		sb.WriteString(escapePartition(v))
		sb.WriteByte('/')
	}
	return sb.String()
}

// escapePartition percent-encodes characters that cannot appear in a path segment.
func escapePartition(v string) string {
	if !strings.ContainsAny(v, "/=%\\:") {
		return v
	}
	var sb strings.Builder
	for i := 0; i < len(v); i++ {
		switch ch := v[i]; ch {
		case '/', '=', '%', '\\', ':':
			fmt.Fprintf(&sb, "%%%02X", ch)
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

func encode[T any](rows []T, c *Config) ([]byte, error) {
	var buf bytes.Buffer
	fw := writerfile.NewWriterFile(&buf)

	pw, err := writer.NewParquetWriter(fw, new(T), c.parallelism)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	pw.RowGroupSize = c.rowGroupSize
	pw.CompressionType = pq.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
