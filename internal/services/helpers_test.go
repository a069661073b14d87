package services

import (
	"errors"
	"time"
)

var errStoreDown = errors.New("connection refused")

func fixedClock(ts string) Clock {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
