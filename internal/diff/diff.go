// Package diff turns a snapshot plus findings into the reviewable change
// list. Exactly one change is generated per category so a user approves
// "normalize fonts" once rather than once per paragraph.
package diff

import (
	"github.com/vasuvaghasia/formate/internal/detect"
	"github.com/vasuvaghasia/formate/internal/docaccess"
	"github.com/vasuvaghasia/formate/internal/docmodel"
)

// FormatChange is one category-level, deferred remediation unit. Command is
// a tagged, serializable op with all parameters resolved from the active
// template at generation time; nothing is recomputed at apply time.
type FormatChange struct {
	ID          string           `json:"id"`
	Kind        docaccess.OpKind `json:"kind"`
	Category    detect.Category  `json:"category"`
	Description string           `json:"description"`
	Before      string           `json:"before"`
	After       string           `json:"after"`
	Range       docmodel.Range   `json:"range"`
	Command     docaccess.Op     `json:"command"`
	Enabled     bool             `json:"enabled"`
}
