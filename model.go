package main

// Display geometry: two rows of sixteen characters each.
const (
	displayCols = 16
	displayRows = 2
)

// confirmText is shown on the display while an acknowledgment dwells.
const confirmText = "OK ;-)"

// DisplayState is a point-in-time snapshot of the controller's message
// state.  Pending is true exactly when a message has been set but not
// yet acknowledged.
type DisplayState struct {
	Current string `json:"current"`
	Acked   string `json:"acked"`
	Pending bool   `json:"pending"`
}

// splitRows maps a message onto the two display rows.  Row 0 takes the
// first 16 bytes.  If the message continues past row 0 and the byte at
// index 16 is a space, row 1 starts after that space at index 17;
// otherwise row 1 starts at index 16.  Skipping the break space shifts
// row 1's window by one, so a message broken at a space shows bytes
// 17..32 while any other break shows bytes 16..31.
func splitRows(msg string) (string, string) {
	row0 := msg
	if len(row0) > displayCols {
		row0 = row0[:displayCols]
	}
	var row1 string
	if len(msg) > displayCols {
		if msg[displayCols] == ' ' {
			row1 = sliceClamped(msg, displayCols+1, 2*displayCols+1)
		} else {
			row1 = sliceClamped(msg, displayCols, 2*displayCols)
		}
	}
	return row0, row1
}

// sliceClamped returns msg[from:to] with both bounds clamped to the
// string length.
func sliceClamped(msg string, from, to int) string {
	if from > len(msg) {
		from = len(msg)
	}
	if to > len(msg) {
		to = len(msg)
	}
	return msg[from:to]
}
