package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

func parseMeasurementsQuery(r *http.Request) (from time.Time, to time.Time, limit int, err error) {
	q := r.URL.Query()

	if s := q.Get("from"); s != "" {
		from, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, time.Time{}, 0, errors.New("invalid 'from' (expected RFC3339)")
		}
	}
	if s := q.Get("to"); s != "" {
		to, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, time.Time{}, 0, errors.New("invalid 'to' (expected RFC3339)")
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, 0, errors.New("'from' must be <= 'to'")
	}

	limit, err = parseLimit(q.Get("limit"))
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	return from, to, limit, nil
}

func parseLatestQuery(r *http.Request) (limit int, err error) {
	return parseLimit(r.URL.Query().Get("limit"))
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid 'limit' (expected integer)")
	}
	if n <= 0 {
		return 0, errors.New("'limit' must be > 0")
	}
	if n > maxLimit {
		return 0, errors.New("'limit' must be <= 1000")
	}
	return n, nil
}
