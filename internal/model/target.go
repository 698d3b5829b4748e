package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	TargetStatusActive   = "active"
	TargetStatusArchived = "archived"
)

// SMART is the canonical goal breakdown. The wizard's "timebound" spelling
// only exists at the session boundary.
type SMART struct {
	Specific   string `json:"specific"`
	Measurable string `json:"measurable"`
	Achievable string `json:"achievable"`
	Relevant   string `json:"relevant"`
	TimeBased  string `json:"timeBased"`
}

// Complete reports whether every field holds non-blank text.
func (s SMART) Complete() bool {
	for _, v := range []string{s.Specific, s.Measurable, s.Achievable, s.Relevant, s.TimeBased} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func (s SMART) Trimmed() SMART {
	return SMART{
		Specific:   strings.TrimSpace(s.Specific),
		Measurable: strings.TrimSpace(s.Measurable),
		Achievable: strings.TrimSpace(s.Achievable),
		Relevant:   strings.TrimSpace(s.Relevant),
		TimeBased:  strings.TrimSpace(s.TimeBased),
	}
}

func (s SMART) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SMART) Scan(src any) error {
	return scanJSON(src, s)
}

type Target struct {
	ID        string    `db:"id" json:"targetId"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Status    string    `db:"status" json:"status"`
	Archived  bool      `db:"archived" json:"archived"`
	Smart     SMART     `db:"smart" json:"smart"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// scanJSON decodes a JSON text column; drivers hand it over as string or []byte.
func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
