package commander

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockery --name Sender --filename sender.go

// ErrEmptyBarcode is returned when command is requested without barcode.
var ErrEmptyBarcode = errors.New("barcode is required")

// IngestCommand is request to look up, rate and store product under barcode.
type IngestCommand struct {
	Barcode string `json:"barcode"`
}

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// IngestCommander sends ingest commands.
type IngestCommander struct {
	sender Sender
}

// NewIngestCommander returns new IngestCommander using provided sender for sending messages.
func NewIngestCommander(sender Sender) IngestCommander {
	return IngestCommander{
		sender: sender,
	}
}

// SendIngestCommand sends ingest command with provided barcode.
func (c IngestCommander) SendIngestCommand(ctx context.Context, barcode string) error {
	cmd := IngestCommand{
		Barcode: strings.TrimSpace(barcode),
	}
	if cmd.Barcode == "" {
		return ErrEmptyBarcode
	}

	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal ingest command: %w", err)
	}

	return c.sender.Send(ctx, cmdMsg)
}
