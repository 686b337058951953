package timeutil

import (
	"encoding/json"
	"strconv"
	"time"
)

// Duration marshals as a human-readable string ("1.5ms") and unmarshals
// from either that form or a raw nanosecond count.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if s[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		dd, err := time.ParseDuration(text)
		if err != nil {
			return err
		}
		*d = Duration(dd)
	} else {
		ns, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*d = Duration(time.Duration(ns))
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
