// Package app wires config, store and services into one runnable unit.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hostelhq/rollcall/internal/attendance"
	"github.com/hostelhq/rollcall/internal/capture"
	"github.com/hostelhq/rollcall/internal/config"
	"github.com/hostelhq/rollcall/internal/export"
	"github.com/hostelhq/rollcall/internal/logging"
	"github.com/hostelhq/rollcall/internal/models"
	"github.com/hostelhq/rollcall/internal/qr"
	"github.com/hostelhq/rollcall/internal/roster"
	"github.com/hostelhq/rollcall/internal/store/sqlite"
)

type App struct {
	Config     *config.Config
	Logger     logging.Logger
	Store      *sqlite.Store
	Roster     *roster.Service
	Attendance *attendance.Service

	renderer *qr.Renderer
}

// New opens the record store at the configured path, migrates it and builds
// the services. Callers own Close.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	st, err := sqlite.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	ros, err := roster.NewService(st, cfg.AdminPassword, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      st,
		Roster:     ros,
		Attendance: attendance.NewService(st, logger),
		renderer:   qr.NewRenderer(cfg.QRImageSize),
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

// GenerateDailyCode produces the PNG of a freshly generated attendance code
// for the administrator to display. The code is regenerated on demand, not
// time-bound.
func (a *App) GenerateDailyCode() ([]byte, error) {
	text, err := qr.EncodeAttendanceToken(time.Now())
	if err != nil {
		return nil, err
	}
	return a.renderer.PNG(text)
}

// NewScanLoop builds a capture loop over device with the configured sampling
// interval and optional timeout.
func (a *App) NewScanLoop(device capture.Device) *capture.Loop {
	opts := []capture.Option{
		capture.WithInterval(a.Config.ScanInterval),
		capture.WithLogger(a.Logger),
	}
	if a.Config.ScanTimeout > 0 {
		opts = append(opts, capture.WithTimeout(a.Config.ScanTimeout))
	}
	return capture.NewLoop(device, qr.NewPipeline(), opts...)
}

// ScanAndMark runs one scan attempt as the active session user and applies
// the marking rule to the resolved token.
func (a *App) ScanAndMark(ctx context.Context, device capture.Device) (*models.AttendanceRecord, error) {
	user, err := a.Roster.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("no active session: %w", err)
	}

	token, err := a.NewScanLoop(device).Run(ctx)
	if err != nil {
		return nil, err
	}
	return a.Attendance.TryMark(ctx, *user, *token)
}

// ExportCSV writes every stored attendance record to w.
func (a *App) ExportCSV(ctx context.Context, w io.Writer) error {
	records, err := a.Store.ListAttendance(ctx)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, records)
}
