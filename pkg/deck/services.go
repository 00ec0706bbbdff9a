package deck

import (
	"sort"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// Palette colors service slices in first-seen order, wrapping around.
var Palette = []string{"#3B82F6", "#10B981", "#F59E0B", "#8B5CF6", "#EC4899", "#6B7280"}

// ServiceBreakdown counts current-period logs by requested service, most
// requested first.
func ServiceBreakdown(current []chatlog.ChatLog) []ServiceSlice {
	index := map[string]int{}
	slices := []ServiceSlice{}
	for _, log := range current {
		i, ok := index[log.ServiceInquired]
		if !ok {
			i = len(slices)
			index[log.ServiceInquired] = i
			slices = append(slices, ServiceSlice{
				Name:  log.ServiceInquired,
				Color: Palette[i%len(Palette)],
			})
		}
		slices[i].Value++
	}

	total := len(current)
	for i := range slices {
		slices[i].Share = float64(slices[i].Value) / float64(total) * 100
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Value > slices[j].Value
	})

	return slices
}
