package hub

import "strconv"

// ConversationID canonical room key of an unordered user pair.
// The first id is length prefixed so ids containing the separator cannot collide.
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return strconv.Itoa(len(a)) + ":" + a + "_" + b
}
