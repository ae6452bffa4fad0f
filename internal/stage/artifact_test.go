package stage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopwright/storefront-etl/internal/mart"
)

func TestWriteArtifact(t *testing.T) {
	ts := time.Date(2018, 3, 1, 14, 22, 9, 0, time.UTC)
	table := &mart.Table{
		Name: "dim_products",
		Columns: []mart.Column{
			{Name: "product_id", Type: mart.Varchar},
			{Name: "product_weight_g", Type: mart.Bigint},
			{Name: "price", Type: mart.Double},
			{Name: "loaded_at", Type: mart.Timestamp},
		},
		Rows: [][]any{
			{"p1", int64(350), 19.9, ts},
			{"p2", int64(0), nil, nil},
		},
	}

	dir := t.TempDir()
	path, err := WriteArtifact(table, dir)
	if err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}

	want := "p1|350|19.9|2018-03-01 14:22:09\n" +
		"p2|0|NULL|NULL\n"
	if string(raw) != want {
		t.Errorf("Artifact mismatch:\n got: %q\nwant: %q", string(raw), want)
	}
}

func TestWriteArtifactNoHeader(t *testing.T) {
	table := &mart.Table{
		Name:    "dim_sellers",
		Columns: []mart.Column{{Name: "seller_id", Type: mart.Varchar}},
		Rows:    [][]any{{"s1"}},
	}

	path, err := WriteArtifact(table, t.TempDir())
	if err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "seller_id") {
		t.Error("Artifact must not contain a header row")
	}
}

func TestWriteArtifactFailureLeavesNoPartialFile(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}

	// Point the artifact path at a device that rejects writes, forcing a
	// flush failure mid-write.
	dir := t.TempDir()
	link := filepath.Join(dir, "dim_sellers.psv")
	if err := os.Symlink("/dev/full", link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	table := &mart.Table{
		Name:    "dim_sellers",
		Columns: []mart.Column{{Name: "seller_id", Type: mart.Varchar}},
		Rows:    [][]any{{"s1"}},
	}

	if _, err := WriteArtifact(table, dir); err == nil {
		t.Fatal("Expected a write error against a full device")
	}
	if _, err := os.Lstat(link); !os.IsNotExist(err) {
		t.Error("Failed write should remove the partial artifact")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil is NULL token", in: nil, want: "NULL"},
		{name: "int64", in: int64(42), want: "42"},
		{name: "float no trailing zeros", in: 2.5, want: "2.5"},
		{name: "plain string", in: "credit_card", want: "credit_card"},
		{name: "embedded delimiter stripped", in: "a|b", want: "a b"},
		{name: "embedded newline stripped", in: "line1\nline2", want: "line1 line2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
