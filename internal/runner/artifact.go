package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/inventory-cli/internal/model"
)

// ArtifactName derives the output file name for a category and date:
// <prefix>_<last-path-segment>_<YYYYMMDD>.json. For plain category names
// without slashes the whole identifier is the segment. Names are
// deterministic, so a rerun on the same calendar date overwrites the prior
// artifact.
func ArtifactName(prefix, category string, now time.Time) string {
	seg := strings.TrimSuffix(category, "/")
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	return fmt.Sprintf("%s_%s_%s.json", prefix, seg, now.Format("20060102"))
}

// WriteArtifact persists the inventory as canonical indented JSON at
// dir/name, creating dir if needed and overwriting any existing file.
func WriteArtifact(dir, name string, inv *model.Inventory) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "runner: create output dir %s", dir)
	}

	if inv.Items == nil {
		// An empty result still serializes as {"items": []}.
		inv = &model.Inventory{Items: []model.InventoryItem{}}
	}

	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "runner: encode inventory")
	}
	data = append(data, '\n')

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "runner: write artifact %s", path)
	}
	return path, nil
}
