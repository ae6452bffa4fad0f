package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopwright/storefront-etl/internal/logging"
)

// Reader loads extract CSVs from a local directory.
type Reader struct {
	dir string
}

// NewReader creates a Reader rooted at the given extract directory.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// ReadAll loads all nine extracts. A missing or unreadable file is fatal:
// no transformation may begin on a partial set.
func (r *Reader) ReadAll() (map[string]*Extract, error) {
	extracts := make(map[string]*Extract, len(Filenames))
	for name, filename := range Filenames {
		ex, err := r.Read(name)
		if err != nil {
			return nil, err
		}
		logging.Info().
			Str("dataset", name).
			Str("file", filename).
			Int("rows", len(ex.Rows)).
			Msg("Loaded extract")
		extracts[name] = ex
	}
	return extracts, nil
}

// Read loads a single named extract.
func (r *Reader) Read(name string) (*Extract, error) {
	filename, ok := Filenames[name]
	if !ok {
		return nil, fmt.Errorf("unknown dataset: %s", name)
	}
	path := filepath.Join(r.dir, filename)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extract %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse extract %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("extract %s is empty: no header row", path)
	}

	return &Extract{
		Name:    name,
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}
