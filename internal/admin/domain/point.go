package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PointID is either an unsigned integer or a string (UUID) id.
type PointID struct {
	Num   uint64
	Str   string
	IsNum bool
}

func NumID(n uint64) PointID { return PointID{Num: n, IsNum: true} }
func StrID(s string) PointID { return PointID{Str: s} }

func (id PointID) String() string {
	if id.IsNum {
		return strconv.FormatUint(id.Num, 10)
	}
	return id.Str
}

func (id PointID) MarshalJSON() ([]byte, error) {
	if id.IsNum {
		return []byte(strconv.FormatUint(id.Num, 10)), nil
	}
	return json.Marshal(id.Str)
}

func (id *PointID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = StrID(s)
		return nil
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("point id must be a string or unsigned integer: %s", b)
	}
	*id = NumID(n)
	return nil
}

type Point struct {
	ID      PointID
	Vector  []float32
	Payload map[string]any
}

type SearchQuery struct {
	Collection  string
	Vector      []float32
	Limit       uint64
	WithPayload bool
}

type ScoredPoint struct {
	ID      PointID
	Score   float32
	Payload map[string]any
}
