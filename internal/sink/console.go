package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"pmcu-collector/internal/telemetry"
)

// Console prints each measurement as numbered, indented JSON.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	seq int
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Write(m telemetry.Measurement) error {
	body, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("encode measurement: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.w, "Measurement (%d):\n%s\n", c.seq, body); err != nil {
		return err
	}
	c.seq++
	return nil
}
