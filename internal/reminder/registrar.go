package reminder

import (
	"context"
	"errors"
)

var ErrPermissionDenied = errors.New("notification permission denied")

// Registrar delivers reminders to a notification backend.
type Registrar interface {
	Name() string
	// Register may set r.ExternalID.
	Register(ctx context.Context, r *Reminder) error
	Unregister(ctx context.Context, r Reminder) error
}

// deviceRegistrar leaves delivery to the client, which reads the stored rows.
type deviceRegistrar struct{}

func NewDeviceRegistrar() Registrar {
	return deviceRegistrar{}
}

func (deviceRegistrar) Name() string { return "device" }

func (deviceRegistrar) Register(ctx context.Context, r *Reminder) error { return nil }

func (deviceRegistrar) Unregister(ctx context.Context, r Reminder) error { return nil }
