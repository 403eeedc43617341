package enrollment

import "sort"

// OtherReasonID marks a free-text rejection; the description overrides the
// table message.
const OtherReasonID = 7

// Rejection reason ids are stable identifiers shared with tutor tooling.
// Id 3 was retired; the gap is deliberate and ids are never renumbered.
var rejectionReasons = map[int]string{
	1: "Incomplete or illegible documentation",
	2: "Birth date outside the eligible age range",
	4: "School is not registered for the current call",
	5: "Competitor already enrolled in this area",
	6: "Category does not match the competitor's grade",
	7: "Other",
}

type RejectionReason struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// DescribeRejectionReason resolves a reason id into a display message.
// Id 7 uses the custom text when present. The second return is false for
// ids without a table entry.
func DescribeRejectionReason(id int, customText string) (string, bool) {
	if id == OtherReasonID {
		if customText == "" {
			return "Other reason", true
		}
		return customText, true
	}
	message, ok := rejectionReasons[id]
	return message, ok
}

// RejectionReasons lists every table entry in ascending id order.
func RejectionReasons() []RejectionReason {
	ids := make([]int, 0, len(rejectionReasons))
	for id := range rejectionReasons {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	reasons := make([]RejectionReason, 0, len(ids))
	for _, id := range ids {
		reasons = append(reasons, RejectionReason{ID: id, Message: rejectionReasons[id]})
	}
	return reasons
}
