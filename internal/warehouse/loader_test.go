package warehouse

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/shopwright/storefront-etl/internal/logging"
	"github.com/shopwright/storefront-etl/internal/mart"
)

const testIAMRole = "arn:aws:iam::123456789012:role/warehouse-copy"

// fakeDB records every statement executed through its transactions. A
// statement matching failOn is rejected without being recorded.
type fakeDB struct {
	statements []string
	failOn     string
	committed  bool
	rolledBack bool
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.statements = append(db.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

type fakeTx struct {
	db *fakeDB
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx.db.failOn != "" && strings.HasPrefix(sql, tx.db.failOn) {
		return pgconn.CommandTag{}, errors.New("statement rejected")
	}
	tx.db.statements = append(tx.db.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.db.statements = append(tx.db.statements, "COMMIT")
	tx.db.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.db.committed {
		return pgx.ErrTxClosed
	}
	tx.db.rolledBack = true
	return nil
}

func (tx *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}

func (tx *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (tx *fakeTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (tx *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (tx *fakeTx) Conn() *pgx.Conn {
	return nil
}

type fakeStore struct {
	uploaded []string
	err      error
}

func (s *fakeStore) Upload(ctx context.Context, table, localPath string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploaded = append(s.uploaded, table)
	return "s3://staging-bucket/staging/" + table + ".psv", nil
}

func sellerTable() *mart.Table {
	return &mart.Table{
		Name:    mart.DimSellers,
		Columns: []mart.Column{{Name: "seller_id", Type: mart.Varchar}},
		Rows:    [][]any{{"s1"}, {"s2"}},
	}
}

func assertStageDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read stage dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Stage dir should hold no artifacts after a load, found %d", len(entries))
	}
}

func TestLoadTruncateStatementOrder(t *testing.T) {
	db := &fakeDB{}
	dir := t.TempDir()
	loader := NewLoader(db, &fakeStore{}, testIAMRole, StrategyTruncate, dir)

	result := loader.Load(context.Background(), sellerTable())
	if result.Err != nil {
		t.Fatalf("Load failed: %v", result.Err)
	}
	if result.Rows != 2 {
		t.Errorf("Rows = %d, want 2", result.Rows)
	}

	want := []string{
		TruncateSQL(mart.DimSellers),
		CopySQL(mart.DimSellers, "s3://staging-bucket/staging/dim_sellers.psv", testIAMRole),
		"COMMIT",
	}
	if len(db.statements) != len(want) {
		t.Fatalf("Executed %d statements, want %d: %v", len(db.statements), len(want), db.statements)
	}
	for i, stmt := range want {
		if db.statements[i] != stmt {
			t.Errorf("Statement %d = %q, want %q", i, db.statements[i], stmt)
		}
	}
	assertStageDirEmpty(t, dir)
}

func TestLoadRecreateStatementOrder(t *testing.T) {
	db := &fakeDB{}
	loader := NewLoader(db, &fakeStore{}, testIAMRole, StrategyRecreate, t.TempDir())

	result := loader.Load(context.Background(), sellerTable())
	if result.Err != nil {
		t.Fatalf("Load failed: %v", result.Err)
	}

	if len(db.statements) != 4 {
		t.Fatalf("Executed %d statements, want 4: %v", len(db.statements), db.statements)
	}
	if db.statements[0] != DropTableSQL(mart.DimSellers) {
		t.Errorf("First statement = %q, want cascading drop", db.statements[0])
	}
	if !strings.HasPrefix(db.statements[1], "CREATE TABLE dim_sellers") {
		t.Errorf("Second statement = %q, want table creation", db.statements[1])
	}
	if !strings.HasPrefix(db.statements[2], "COPY dim_sellers") {
		t.Errorf("Third statement = %q, want bulk copy", db.statements[2])
	}
	if db.statements[3] != "COMMIT" {
		t.Errorf("Fourth statement = %q, want commit", db.statements[3])
	}
}

func TestLoadCopyFailureRollsBack(t *testing.T) {
	db := &fakeDB{failOn: "COPY"}
	dir := t.TempDir()
	loader := NewLoader(db, &fakeStore{}, testIAMRole, StrategyTruncate, dir)

	result := loader.Load(context.Background(), sellerTable())
	if result.Err == nil {
		t.Fatal("Expected copy failure to surface in the result")
	}
	if db.committed {
		t.Error("Transaction must not commit after a failed copy")
	}
	if !db.rolledBack {
		t.Error("Transaction must roll back after a failed copy")
	}
	// The truncate ran inside the rolled-back transaction, so the
	// destination contents survive the failed attempt.
	if len(db.statements) != 1 || db.statements[0] != TruncateSQL(mart.DimSellers) {
		t.Errorf("Unexpected statements before rollback: %v", db.statements)
	}
	assertStageDirEmpty(t, dir)
}

func TestLoadUploadFailureIsLoggedAndCleanedUp(t *testing.T) {
	var buf bytes.Buffer
	orig := logging.Logger
	logging.Logger = zerolog.New(&buf)
	defer func() { logging.Logger = orig }()

	db := &fakeDB{}
	dir := t.TempDir()
	loader := NewLoader(db, &fakeStore{err: errors.New("bucket unreachable")}, testIAMRole, StrategyTruncate, dir)

	result := loader.Load(context.Background(), sellerTable())
	if result.Err == nil {
		t.Fatal("Expected upload failure to surface in the result")
	}
	if len(db.statements) != 0 {
		t.Errorf("No statement should run after a failed upload, got %v", db.statements)
	}
	if !strings.Contains(buf.String(), mart.DimSellers) {
		t.Errorf("Failure log should name the table, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "bucket unreachable") {
		t.Errorf("Failure log should carry the error, got: %s", buf.String())
	}
	assertStageDirEmpty(t, dir)
}

func TestLoadSerializeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	orig := logging.Logger
	logging.Logger = zerolog.New(&buf)
	defer func() { logging.Logger = orig }()

	store := &fakeStore{}
	missing := filepath.Join(t.TempDir(), "missing")
	loader := NewLoader(&fakeDB{}, store, testIAMRole, StrategyTruncate, missing)

	result := loader.Load(context.Background(), sellerTable())
	if result.Err == nil {
		t.Fatal("Expected serialization failure to surface in the result")
	}
	if len(store.uploaded) != 0 {
		t.Errorf("Nothing should upload after a failed serialization, got %v", store.uploaded)
	}
	if !strings.Contains(buf.String(), mart.DimSellers) {
		t.Errorf("Failure log should name the table, got: %s", buf.String())
	}
}
