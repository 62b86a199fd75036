package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

// allocIndexPattern extracts n from names such as "api.web[3]"
var allocIndexPattern = regexp.MustCompile(`\[([0-9]+)\]$`)

// Allocation is one placement of a job's task group on a scheduler client
type Allocation struct {
	ID           uuid.UUID  `json:"ID" yaml:"id"`
	JobID        string     `json:"JobID" yaml:"job_id"`
	Namespace    string     `json:"Namespace" yaml:"namespace"`
	TaskGroup    string     `json:"TaskGroup" yaml:"task_group"`
	ClientStatus string     `json:"ClientStatus" yaml:"client_status"`
	Index        AllocIndex `json:"Index" yaml:"index"`
	NodeID       uuid.UUID  `json:"NodeID" yaml:"node_id"`
}

// Running reports whether the scheduler considers the allocation running
func (a *Allocation) Running() bool {
	return a.ClientStatus == StatusRunning
}

// UnmarshalJSON accepts the scheduler's list form, where the index only
// appears inside the allocation name, as well as this package's own encoded
// form, where it is a separate Index field.
func (a *Allocation) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID           uuid.UUID   `json:"ID"`
		JobID        string      `json:"JobID"`
		Namespace    string      `json:"Namespace"`
		TaskGroup    string      `json:"TaskGroup"`
		ClientStatus string      `json:"ClientStatus"`
		Name         *AllocIndex `json:"Name"`
		Index        *AllocIndex `json:"Index"`
		NodeID       uuid.UUID   `json:"NodeID"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var index AllocIndex
	switch {
	case wire.Index != nil:
		index = *wire.Index
	case wire.Name != nil:
		index = *wire.Name
	default:
		return fmt.Errorf("%w: allocation %s has neither Name nor Index", ErrDecode, wire.ID)
	}

	*a = Allocation{
		ID:           wire.ID,
		JobID:        wire.JobID,
		Namespace:    wire.Namespace,
		TaskGroup:    wire.TaskGroup,
		ClientStatus: wire.ClientStatus,
		Index:        index,
		NodeID:       wire.NodeID,
	}
	return nil
}

// AllocIndex is the placement index of an allocation within its task group.
// It is always materialized as an integer at the decode boundary.
type AllocIndex uint32

// ParseAllocIndex normalizes either a bare integer ("3") or a composite
// allocation name ending in a bracketed integer ("api.web[3]").
func ParseAllocIndex(s string) (AllocIndex, error) {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return AllocIndex(n), nil
	}

	m := allocIndexPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: allocation index %q does not end in [n]", ErrDecode, s)
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: allocation index %q out of range", ErrDecode, s)
	}
	return AllocIndex(n), nil
}

// UnmarshalJSON decodes a JSON number or string into a normalized index
func (i *AllocIndex) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: allocation index: %v", ErrDecode, err)
		}
		v, err := ParseAllocIndex(s)
		if err != nil {
			return err
		}
		*i = v
		return nil
	}

	var n uint32
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: allocation index %s: %v", ErrDecode, data, err)
	}
	*i = AllocIndex(n)
	return nil
}

func (i AllocIndex) String() string {
	return strconv.FormatUint(uint64(i), 10)
}
