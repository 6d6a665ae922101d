// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// RepairFile loads a report document from path, repairs its links and
// rewrites the file in place. Returns the number of repaired links.
func (r *Repairer) RepairFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading report document: %w", err)
	}
	var doc types.ReportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parsing report document: %w", err)
	}

	fixed, err := r.Repair(ctx, &doc)
	if err != nil {
		return fixed, err
	}

	out, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fixed, fmt.Errorf("marshaling report document: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fixed, fmt.Errorf("writing report document: %w", err)
	}
	return fixed, nil
}
