package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/desertbus/internal/dynamo"
)

var csvHeader = []string{"tick", "speed", "heading", "lateral", "distance", "steer", "throttle"}

// WriteCSV writes one row per state. intents[i] is the input that produced
// states[i+1]; the first row has no input.
func WriteCSV(w io.Writer, states []dynamo.State, intents []dynamo.Intent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, s := range states {
		steer, throttle := "", ""
		if i > 0 && i-1 < len(intents) {
			steer = strconv.Itoa(intents[i-1].Steer)
			throttle = strconv.Itoa(intents[i-1].Throttle)
		}
		row := []string{strconv.Itoa(i), f(s.Speed), f(s.Heading), f(s.Lateral), f(s.Distance), steer, throttle}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
