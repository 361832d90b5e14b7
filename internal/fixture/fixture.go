// Package fixture loads a TOML document describing one or more tables —
// schema plus seed rows plus QueryContext flags — into the types
// internal/server and internal/engine operate on. Grounded on
// internal/parser/toml/parser.go's shape: small typed `toml:"..."`
// mapping structs decoded with github.com/BurntSushi/toml, then converted
// by a package-private converter, adapted from the teacher's DDL schema
// format (dialects, constraints, foreign keys) down to this engine's
// narrower TableSchema/Dataset/QueryContext model.
package fixture

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"sqlfake/internal/queryctx"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/sqlvalue"
)

// tomlDocument is the top-level TOML document shape.
type tomlDocument struct {
	Database     string            `toml:"database"`
	Tables       []tomlTable       `toml:"tables"`
	QueryContext *tomlQueryContext `toml:"query_context"`
}

type tomlColumn struct {
	Name          string `toml:"name"`
	Type          string `toml:"type"` // "int", "float", "string", "bool"
	AutoIncrement bool   `toml:"auto_increment"`
}

type tomlIndex struct {
	Name   string   `toml:"name"`
	Kind   string   `toml:"kind"` // "primary", "unique", "index"
	Fields []string `toml:"fields"`
}

type tomlVitessSharding struct {
	Keyspace    string `toml:"keyspace"`
	ShardingKey string `toml:"sharding_key"`
}

type tomlTable struct {
	Name           string              `toml:"name"`
	Columns        []tomlColumn        `toml:"columns"`
	Indexes        []tomlIndex         `toml:"indexes"`
	VitessSharding *tomlVitessSharding `toml:"vitess_sharding"`
	Rows           []map[string]any    `toml:"rows"`
}

type tomlQueryContext struct {
	UseReplica                     bool `toml:"use_replica"`
	PreventReplicaReadsAfterWrites bool `toml:"prevent_replica_reads_after_writes"`
	RelaxUniqueConstraints         bool `toml:"relax_unique_constraints"`
}

// TableFixture is one table's parsed schema plus its seed dataset.
type TableFixture struct {
	Schema  *schema.TableSchema
	Dataset *row.Dataset
}

// Fixture is a fully parsed fixture document: every table's schema and
// seed data, plus the QueryContext flags a test or CLI run should start
// with.
type Fixture struct {
	Database     string
	Tables       map[string]*TableFixture
	QueryContext *queryctx.Context
}

// Parser reads fixture TOML documents.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser { return &Parser{} }

// ParseFile opens the file at path and parses it as a fixture document.
func (p *Parser) ParseFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: open file %q: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads TOML content from r and returns the resulting Fixture.
func (p *Parser) Parse(r io.Reader) (*Fixture, error) {
	var doc tomlDocument
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("fixture: decode error: %w", err)
	}
	return convert(&doc)
}

func convert(doc *tomlDocument) (*Fixture, error) {
	fx := &Fixture{
		Database: doc.Database,
		Tables:   make(map[string]*TableFixture, len(doc.Tables)),
	}

	for i := range doc.Tables {
		tf, err := convertTable(&doc.Tables[i])
		if err != nil {
			return nil, fmt.Errorf("fixture: table %q: %w", doc.Tables[i].Name, err)
		}
		fx.Tables[doc.Tables[i].Name] = tf
	}

	fx.QueryContext = convertQueryContext(doc.QueryContext)
	return fx, nil
}

func convertTable(tt *tomlTable) (*TableFixture, error) {
	ts := &schema.TableSchema{Name: tt.Name}

	for _, tc := range tt.Columns {
		ts.Fields = append(ts.Fields, schema.Column{
			Name:          tc.Name,
			Type:          columnType(tc.Type),
			AutoIncrement: tc.AutoIncrement,
		})
	}

	for _, ti := range tt.Indexes {
		kind, ok := indexKind(ti.Kind)
		if !ok {
			return nil, fmt.Errorf("index %q: unknown kind %q", ti.Name, ti.Kind)
		}
		ts.Indexes = append(ts.Indexes, schema.Index{Name: ti.Name, Kind: kind, Fields: ti.Fields})
	}

	if tt.VitessSharding != nil {
		ts.VitessSharding = &schema.VitessSharding{
			Keyspace:    tt.VitessSharding.Keyspace,
			ShardingKey: tt.VitessSharding.ShardingKey,
		}
	}

	if err := ts.Validate(); err != nil {
		return nil, err
	}

	dataset := row.NewDataset()
	pk := ts.PrimaryIndex()
	for _, rawRow := range tt.Rows {
		r := row.NewRow()
		for col, v := range rawRow {
			r.Set(col, valueFromAny(v))
		}
		dataset.Set(rowID(r, pk), r)
	}

	return &TableFixture{Schema: ts, Dataset: dataset}, nil
}

func rowID(r *row.Row, pk *schema.Index) row.ID {
	if pk != nil && pk.IsSinglePrimary() {
		return row.FromValue(r.GetOr(pk.Fields[0]))
	}
	return row.FromValue(r.GetOr("id"))
}

func convertQueryContext(tqc *tomlQueryContext) *queryctx.Context {
	qctx := queryctx.New()
	if tqc == nil {
		return qctx
	}
	qctx.UseReplica = tqc.UseReplica
	qctx.PreventReplicaReadsAfterWrites = tqc.PreventReplicaReadsAfterWrites
	qctx.RelaxUniqueConstraints = tqc.RelaxUniqueConstraints
	return qctx
}

func columnType(raw string) schema.ColumnType {
	switch raw {
	case "int":
		return schema.TypeInt
	case "float":
		return schema.TypeFloat
	case "string":
		return schema.TypeString
	case "bool":
		return schema.TypeBool
	default:
		return schema.TypeUnknown
	}
}

func indexKind(raw string) (schema.IndexKind, bool) {
	switch raw {
	case "primary":
		return schema.KindPrimary, true
	case "unique":
		return schema.KindUnique, true
	case "index":
		return schema.KindIndex, true
	default:
		return 0, false
	}
}

// valueFromAny converts a value decoded from TOML (the handful of Go
// types github.com/BurntSushi/toml produces for scalars) into a
// sqlvalue.Value.
func valueFromAny(v any) sqlvalue.Value {
	switch val := v.(type) {
	case nil:
		return sqlvalue.Null
	case int64:
		return sqlvalue.NewInt(val)
	case int:
		return sqlvalue.NewInt(int64(val))
	case float64:
		return sqlvalue.NewFloat(val)
	case string:
		return sqlvalue.NewString(val)
	case bool:
		return sqlvalue.NewBool(val)
	default:
		return sqlvalue.NewString(fmt.Sprintf("%v", val))
	}
}
