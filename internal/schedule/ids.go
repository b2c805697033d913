package schedule

import (
	"fmt"
	"strings"
	"time"
)

// ItemID is the id format for schedule items, unique within one goal.
func ItemID(stamp time.Time, index int) string {
	return fmt.Sprintf("schedule-%d-%d", stamp.UnixMilli(), index)
}

// AssignIDs returns a copy of items where every id is present and unique.
// Existing ids are kept; blank or repeated ones get a fresh ItemID.
func AssignIDs(items []Item, stamp time.Time) []Item {
	if items == nil {
		return nil
	}

	out := make([]Item, len(items))
	taken := make(map[string]bool, len(items))
	for _, item := range items {
		if id := strings.TrimSpace(item.ID); id != "" {
			taken[id] = false
		}
	}

	next := 0
	fresh := func() string {
		for {
			id := ItemID(stamp, next)
			next++
			if _, used := taken[id]; !used {
				taken[id] = true
				return id
			}
		}
	}

	for i, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" || taken[id] {
			item.ID = fresh()
		} else {
			item.ID = id
			taken[id] = true
		}
		out[i] = item
	}
	return out
}
