package output

import (
	"encoding/json"
	"fmt"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// HistoryEntry summarizes one stored plan
type HistoryEntry struct {
	PlanID         string `json:"plan_id"`
	Mode           string `json:"mode"`
	GeneratedAt    string `json:"generated_at"`
	Horizon        string `json:"horizon"`
	Orders         int    `json:"orders"`
	Exceptions     int    `json:"exceptions"`
	Changes        int    `json:"changes"`
	PreviousPlanID string `json:"previous_plan_id,omitempty"`
}

// GenerateHistory lists a facility's stored plans, oldest first
func GenerateHistory(facilityID string, plans []*entities.MrpPlan, config Config) error {
	entries := make([]HistoryEntry, 0, len(plans))
	for _, plan := range plans {
		entries = append(entries, HistoryEntry{
			PlanID:         plan.PlanID,
			Mode:           plan.Mode.String(),
			GeneratedAt:    plan.GeneratedAt.Format("2006-01-02 15:04:05"),
			Horizon:        plan.Horizon.String(),
			Orders:         len(plan.PlannedOrders),
			Exceptions:     len(plan.Exceptions),
			Changes:        len(plan.Changes),
			PreviousPlanID: plan.PreviousPlanID,
		})
	}

	w := config.writer()
	switch config.Format {
	case "json":
		jsonData, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonData))
		return nil
	case "", "text":
	default:
		return fmt.Errorf("unsupported history format: %s", config.Format)
	}

	fmt.Fprintf(w, "🗂  Plan history for %s: %d plans\n", facilityID, len(entries))
	if len(entries) == 0 {
		return nil
	}
	fmt.Fprintf(w, "%-38s %-11s %-20s %-7s %-10s %-7s\n",
		"Plan", "Mode", "Generated", "Orders", "Exceptions", "Changes")
	for _, entry := range entries {
		fmt.Fprintf(w, "%-38s %-11s %-20s %-7d %-10d %-7d\n",
			entry.PlanID, entry.Mode, entry.GeneratedAt, entry.Orders, entry.Exceptions, entry.Changes)
	}
	return nil
}
