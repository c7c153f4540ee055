package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// RepairStatus represents the workshop status of a repair job
type RepairStatus int

const (
	RepairStatusPending    RepairStatus = 0
	RepairStatusInProgress RepairStatus = 1
	RepairStatusReady      RepairStatus = 2
	RepairStatusCompleted  RepairStatus = 3
	RepairStatusDelivered  RepairStatus = 4
	RepairStatusCancelled  RepairStatus = 5
)

// repairTransitions lists the allowed next statuses for each status.
// completed, delivered and cancelled are terminal.
var repairTransitions = map[RepairStatus][]RepairStatus{
	RepairStatusPending:    {RepairStatusInProgress, RepairStatusCancelled},
	RepairStatusInProgress: {RepairStatusReady, RepairStatusCancelled},
	RepairStatusReady:      {RepairStatusCompleted, RepairStatusDelivered, RepairStatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is a legal
// status change.
func (s RepairStatus) CanTransitionTo(next RepairStatus) bool {
	for _, allowed := range repairTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RepairStatus) String() string {
	switch s {
	case RepairStatusPending:
		return "pending"
	case RepairStatusInProgress:
		return "in_progress"
	case RepairStatusReady:
		return "ready"
	case RepairStatusCompleted:
		return "completed"
	case RepairStatusDelivered:
		return "delivered"
	case RepairStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ParseRepairStatus converts a wire string into a RepairStatus
func ParseRepairStatus(str string) (RepairStatus, bool) {
	switch str {
	case "pending":
		return RepairStatusPending, true
	case "in_progress":
		return RepairStatusInProgress, true
	case "ready":
		return RepairStatusReady, true
	case "completed":
		return RepairStatusCompleted, true
	case "delivered":
		return RepairStatusDelivered, true
	case "cancelled":
		return RepairStatusCancelled, true
	}
	return RepairStatusPending, false
}

func (s RepairStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RepairStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = RepairStatus(i)
		return nil
	}
	if parsed, ok := ParseRepairStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s RepairStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *RepairStatus) Scan(value interface{}) error {
	if value == nil {
		*s = RepairStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = RepairStatus(v)
	case int:
		*s = RepairStatus(v)
	}
	return nil
}
